package engine

import (
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

// Decision is an interceptor's verdict on one event.
type Decision int

const (
	// DecisionPassthrough leaves the event to normal formula evaluation.
	DecisionPassthrough Decision = iota
	// DecisionSkip suppresses the event's threat entirely.
	DecisionSkip
	// DecisionAugment modifies the event's normal result (redirect or
	// multiply) after formula evaluation.
	DecisionAugment
)

// Claim is the first non-passthrough verdict for an event.
type Claim struct {
	Decision   Decision
	RedirectTo int     // attribute threat to this actor instead of the source
	Multiplier float64 // scale the modified threat; zero means unchanged
	Note       string  // recorded in the calculation breakdown
}

// installedInterceptor is one live handler. Interceptors are plain value
// records evaluated by a fixed dispatcher switching on kind, so registry
// state stays serializable and testable in isolation.
type installedInterceptor struct {
	installedAt      int64
	kind             threatcfg.InterceptorKind
	sourceID         int
	targetID         int
	remainingCharges int // 0 = unbounded by charges
	expiresAt        int64
	multiplier       float64
	abilityName      string
}

// Registry is the ordered list of installed interceptors for one run. The
// processor owns it exclusively; install, evaluate and uninstall are the only
// operations.
type Registry struct {
	items []installedInterceptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Install appends a handler built from the ability's interceptor spec. The
// installing cast's source becomes the watched actor; the cast's target
// becomes the redirect beneficiary for redirect kinds.
func (r *Registry) Install(spec *threatcfg.InterceptorSpec, ev gamedata.Event, abilityName string) {
	it := installedInterceptor{
		installedAt:      ev.Timestamp,
		kind:             spec.Kind,
		sourceID:         ev.SourceID,
		targetID:         ev.TargetID,
		remainingCharges: spec.Charges,
		multiplier:       spec.Multiplier,
		abilityName:      abilityName,
	}
	if spec.WindowMS > 0 {
		it.expiresAt = ev.Timestamp + spec.WindowMS
	}
	r.items = append(r.items, it)
}

// Evaluate gives every still-installed interceptor first refusal of the
// event, in install order. The first non-passthrough verdict claims the
// event. Time-expired handlers uninstall as they are encountered; a handler
// whose last charge is consumed uninstalls after claiming this event.
func (r *Registry) Evaluate(ev gamedata.Event) Claim {
	kept := r.items[:0]
	var claim Claim
	claimed := false
	for _, it := range r.items {
		if it.expiresAt > 0 && ev.Timestamp > it.expiresAt {
			continue // expired, drop
		}
		if claimed || !it.qualifies(ev) {
			kept = append(kept, it)
			continue
		}
		claim = it.claim()
		claimed = true
		if it.remainingCharges > 0 {
			it.remainingCharges--
			if it.remainingCharges == 0 {
				continue // last charge consumed, drop
			}
		}
		kept = append(kept, it)
	}
	r.items = kept
	if !claimed {
		return Claim{Decision: DecisionPassthrough}
	}
	return claim
}

// RemoveTargeting retires handlers whose beneficiary is the given actor.
// Called when a redirect target dies: the attribution no longer has anywhere
// to go.
func (r *Registry) RemoveTargeting(actorID int) {
	kept := r.items[:0]
	for _, it := range r.items {
		if it.kind == threatcfg.InterceptRedirect && it.targetID == actorID {
			continue
		}
		kept = append(kept, it)
	}
	r.items = kept
}

// Len reports the number of live handlers.
func (r *Registry) Len() int {
	return len(r.items)
}

// qualifies reports whether the event is one the handler watches: a
// threat-bearing event by the watched source.
func (it installedInterceptor) qualifies(ev gamedata.Event) bool {
	if ev.SourceID != it.sourceID {
		return false
	}
	switch ev.Type {
	case gamedata.EventDamage, gamedata.EventHeal, gamedata.EventEnergize:
		return true
	}
	return false
}

func (it installedInterceptor) claim() Claim {
	switch it.kind {
	case threatcfg.InterceptSuppress:
		return Claim{Decision: DecisionSkip, Note: it.abilityName}
	case threatcfg.InterceptRedirect:
		return Claim{Decision: DecisionAugment, RedirectTo: it.targetID, Note: it.abilityName}
	case threatcfg.InterceptAmplify:
		return Claim{Decision: DecisionAugment, Multiplier: it.multiplier, Note: it.abilityName}
	}
	return Claim{Decision: DecisionPassthrough}
}
