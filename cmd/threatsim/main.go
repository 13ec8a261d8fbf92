package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tstirrat/wow-threat-sub003/internal/engine"
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/resultcache"
	"github.com/tstirrat/wow-threat-sub003/internal/runner"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	root := &cobra.Command{
		Use:           "threatsim",
		Short:         "Recompute per-event threat for exported combat logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSimulateCmd(logger), newLintCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newSimulateCmd(logger *zap.Logger) *cobra.Command {
	var (
		reportPath string
		fightID    int
		configDir  string
		cachePath  string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one fight of a report through the threat engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rep, err := gamedata.ReadReport(reportPath)
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}

			configs, err := threatcfg.LoadDir(configDir)
			if err != nil {
				return fmt.Errorf("load configs: %w", err)
			}

			index, err := gamedata.BuildFightIndex(rep, fightID)
			if err != nil {
				return err
			}

			cfg, err := threatcfg.Resolve(configs, threatcfg.Metadata{
				GameVersion: rep.GameVersion,
				SeasonID:    index.SeasonID,
				Partitions:  rep.Partitions,
			})
			if err != nil {
				return err
			}
			logger.Info("resolved threat config",
				zap.String("config", cfg.Name),
				zap.String("revision", cfg.Revision),
				zap.Int("fight", fightID))

			var cache *resultcache.Store
			if cachePath != "" {
				cache, err = resultcache.Open(cachePath)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				defer cache.Close() //nolint:errcheck

				if cached, hit, err := cache.Get(ctx, rep.Code, fightID, cfg.Revision); err != nil {
					logger.Warn("cache read failed", zap.Error(err))
				} else if hit {
					logger.Info("cache hit", zap.String("report", rep.Code), zap.Int("fight", fightID))
					return writeOutput(outPath, cached)
				}
			}

			out, err := runner.New(logger).Run(ctx, engine.Input{
				Events:        fightEvents(rep, index),
				Index:         index,
				Config:        cfg,
				CombatantInfo: rep.CombatantInfo,
				TankIDs:       rep.TankIDs,
			})
			if err != nil {
				return err
			}

			if cache != nil {
				if runID, err := cache.Put(ctx, rep.Code, fightID, cfg.Revision, out); err != nil {
					logger.Warn("cache write failed", zap.Error(err))
				} else {
					logger.Info("cached run", zap.String("runID", runID))
				}
			}
			return writeOutput(outPath, out)
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "path to the exported report JSON")
	cmd.Flags().IntVar(&fightID, "fight", 0, "fight id within the report")
	cmd.Flags().StringVar(&configDir, "configs", "./configs", "directory of threat rule tables")
	cmd.Flags().StringVar(&cachePath, "cache", "", "optional path to the SQLite result cache")
	cmd.Flags().StringVar(&outPath, "out", "", "write augmented events to this file instead of stdout")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("fight")
	return cmd
}

func newLintCmd() *cobra.Command {
	var configDir string
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the threat rule tables for authoring mistakes",
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := threatcfg.LoadDir(configDir)
			if err != nil {
				return err
			}
			total := 0
			for _, cfg := range configs {
				for _, warning := range threatcfg.Lint(cfg) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cfg.Name, warning)
					total++
				}
			}
			if total > 0 {
				return fmt.Errorf("%d lint warning(s)", total)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d config(s) clean\n", len(configs))
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "configs", "./configs", "directory of threat rule tables")
	return cmd
}

// fightEvents filters the report's event stream to the fight's time window,
// preserving original order.
func fightEvents(rep *gamedata.Report, index *gamedata.FightIndex) []gamedata.Event {
	var fight *gamedata.Fight
	for i := range rep.Fights {
		if rep.Fights[i].ID == index.FightID {
			fight = &rep.Fights[i]
			break
		}
	}
	if fight == nil {
		return nil
	}
	events := make([]gamedata.Event, 0, len(rep.Events))
	for _, ev := range rep.Events {
		if ev.Timestamp >= fight.StartTime && ev.Timestamp <= fight.EndTime {
			events = append(events, ev)
		}
	}
	return events
}

func writeOutput(path string, out *engine.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
