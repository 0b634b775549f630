package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"bd1-manipulator/internal/batch"
	"bd1-manipulator/internal/config"
	"bd1-manipulator/internal/manipulator"
	"bd1-manipulator/internal/mathutil"
)

func recipeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "recipe file (.json, .yaml)"},
		&cli.StringFlag{Name: "steps", Aliases: []string{"s"}, Usage: "transform steps \"op:a,b,c;op:...\", applied after the recipe"},
		&cli.BoolFlag{Name: "degrees", Usage: "step angles are in degrees"},
	}
}

// loadRecipe reads the optional recipe file and merges CLI overrides.
func loadRecipe(c *cli.Context, flags config.Flags) (config.Config, error) {
	var cfg config.Config
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	steps, err := config.ParseSteps(c.String("steps"))
	if err != nil {
		return config.Config{}, err
	}
	flags.Steps = steps
	flags.Degrees = c.Bool("degrees")

	cfg.Resolve(flags)
	return cfg, nil
}

func transformCommand() *cli.Command {
	return &cli.Command{
		Name:  "transform",
		Usage: "apply a transform recipe to one file",
		Flags: append(recipeFlags(),
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "input BD1 file"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output BD1 file (default: <input>_out.bd1)"},
		),
		Action: func(c *cli.Context) error {
			cfg, err := loadRecipe(c, config.Flags{
				Input:  c.String("in"),
				Output: c.String("out"),
			})
			if err != nil {
				return err
			}
			if cfg.Input == "" {
				return fmt.Errorf("transform: no input file (use --in or the recipe's input)")
			}

			m, err := manipulator.Load(cfg.Input)
			if err != nil {
				return err
			}
			logger.Debug("loaded", "path", cfg.Input, "blocks", len(m.Blocks))

			if err := cfg.Apply(m); err != nil {
				return err
			}
			if mathutil.IsIdentity(m.Transform()) {
				logger.Debug("identity transform, vertices unchanged")
			} else {
				logger.Debug("transform", "matrix", m.Transform())
			}
			m.Apply()

			if err := m.Save(cfg.Output); err != nil {
				return err
			}
			logger.Info("wrote", "path", cfg.Output, "blocks", len(m.Blocks), "steps", len(cfg.Steps))
			return nil
		},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "apply a transform recipe to many files concurrently",
		ArgsUsage: "FILE...",
		Flags: append(recipeFlags(),
			&cli.StringFlag{Name: "out-dir", Aliases: []string{"o"}, Usage: "output directory (default: next to each input)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "number of worker goroutines (default: NumCPU)"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("batch: need at least one file")
			}
			cfg, err := loadRecipe(c, config.Flags{
				OutputDir: c.String("out-dir"),
				Workers:   c.Int("workers"),
			})
			if err != nil {
				return err
			}

			inputs := c.Args().Slice()
			logger.Info("batch", "files", len(inputs), "workers", cfg.Workers, "steps", len(cfg.Steps))
			start := time.Now()

			results := batch.Run(batch.Config{
				Recipe:    cfg,
				OutputDir: cfg.OutputDir,
				Logger:    logger,
			}, inputs)

			failed := 0
			for _, r := range results {
				if !r.Success {
					failed++
				}
			}
			logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond), "ok", len(results)-failed, "failed", failed)

			// Without --out-dir outputs sit next to their inputs; keep the
			// manifest beside the first one.
			manifestDir := cfg.OutputDir
			if manifestDir == "" {
				manifestDir = filepath.Dir(inputs[0])
			}
			manifestPath := filepath.Join(manifestDir, "manifest.json")
			if err := batch.WriteManifest(manifestPath, results); err != nil {
				logger.Warn("manifest write failed", "err", err)
			} else {
				logger.Info("manifest", "path", manifestPath)
			}

			if failed > 0 {
				return fmt.Errorf("batch: %d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
}
