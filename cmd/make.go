package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/project"
	"github.com/yeisme/appforge/pkg/utils/hotload"
)

var (
	makeOptions forgeOptions
	makeDryRun  bool
	makeSelect  bool
	makeWatch   bool

	makeCmd = &cobra.Command{
		Use:   "make",
		Short: "Package the application and run the configured makers",
		Long: strings.TrimSpace(`
appforge make packages the application for every requested (platform, arch) pair
and then runs each configured maker on the packaged app.

Makers come from make_targets in the project config (package.json config.forge or
forge.config.{yaml,json,toml}). When a platform has no entry, the makers that declare
that platform as a default are used.

Examples:
  # 1. Make for the host platform and arch
  appforge make

  # 2. Every platform the host can build, every arch
  appforge make --platform all --arch all

  # 3. Only run the zip and dmg makers for mas
  appforge make --platform mas --targets zip,dmg

  # 4. Reuse the previous package step
  appforge make --skip-package

  # 5. Show the plan without running anything
  appforge make --platform all --dry-run

  # 6. Pick makers interactively
  appforge make --select

  # 7. Re-run whenever the project changes
  appforge make --watch

  # 8. External maker by path
  appforge make --targets ./makers/snap

Notes:
  - Makers run one at a time, the first failure aborts the run.
  - --json prints the results as JSON on stdout, logs go to stderr.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProject(makeOptions)
			if err != nil {
				return err
			}
			pipeline, err := newPipeline(cfg)
			if err != nil {
				return err
			}

			if makeSelect {
				platforms, err := pipeline.Resolver().Platforms(makeOptions.Platform)
				if err != nil {
					return err
				}
				specs, err := project.SelectMakers(pipeline.Resolver().Candidates(cfg, platforms))
				if err != nil {
					return err
				}
				makeOptions.Targets = specs
			}

			if makeDryRun {
				items, err := pipeline.Resolver().Resolve(cfg, project.ResolveRequest{
					Platform:        makeOptions.Platform,
					Arch:            makeOptions.Arch,
					OverrideTargets: makeOptions.Targets,
				})
				if err != nil {
					return err
				}
				if makeOptions.JSON {
					work := make([]models.WorkItem, len(items))
					for i, it := range items {
						work[i] = it.WorkItem
					}
					return printJSON(cmd, work)
				}
				return project.PrintPlan(cmd.OutOrStdout(), cfg, items)
			}

			if makeWatch {
				return watchMake(cmd, cfg)
			}
			return runMake(cmd, cfg, pipeline)
		},
	}
)

func runMake(cmd *cobra.Command, cfg *models.ProjectConfig, pipeline *project.Pipeline) error {
	var results []models.MakerResult
	err := withSpinner(describeRequest(cfg, makeOptions), makeOptions.JSON, func() error {
		var err error
		results, err = pipeline.Make(cmd.Context(), makeRequest(cfg, makeOptions))
		return err
	})
	if err != nil {
		return err
	}
	return project.PrintResults(cmd.OutOrStdout(), results, makeOptions.JSON)
}

// watchMake 先执行一次，之后每次项目文件变化都重新加载配置并执行
func watchMake(cmd *cobra.Command, cfg *models.ProjectConfig) error {
	rerun := func() {
		cfg, err := loadProject(makeOptions)
		if err != nil {
			log.Error().Err(err).Msg("failed to reload project config")
			return
		}
		pipeline, err := newPipeline(cfg)
		if err != nil {
			log.Error().Err(err).Msg("failed to build pipeline")
			return
		}
		if err := runMake(cmd, cfg, pipeline); err != nil {
			log.Error().Err(err).Msg("make failed")
		}
	}
	rerun()

	watch := appCtx.Config.App.Watch
	ignore := append([]string{}, watch.IgnorePatterns...)
	// 输出目录位于项目内时忽略，否则产物写入会触发下一轮
	if rel, ok := relOutDir(cfg, makeOptions.OutDir); ok {
		ignore = append(ignore, rel)
	}
	return hotload.Watch(cmd.Context(), hotload.Options{
		Dir:            cfg.Dir,
		Debounce:       time.Duration(watch.Debounce) * time.Millisecond,
		IgnorePatterns: ignore,
	}, rerun)
}

func init() {
	rootCmd.AddCommand(makeCmd)

	addForgeFlags(makeCmd, &makeOptions, true)
	makeCmd.Flags().BoolVar(&makeDryRun, "dry-run", false, "resolve and print the work items without packaging or making")
	makeCmd.Flags().BoolVar(&makeSelect, "select", false, "interactively choose which makers to run")
	makeCmd.Flags().BoolVarP(&makeWatch, "watch", "w", false, "re-run make whenever project files change")
	makeCmd.MarkFlagsMutuallyExclusive("select", "targets")
	makeCmd.MarkFlagsMutuallyExclusive("dry-run", "watch")
}
