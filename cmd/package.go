package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/project"
	"github.com/yeisme/appforge/pkg/style"
)

var (
	packageOptions forgeOptions

	packageCmd = &cobra.Command{
		Use:   "package",
		Short: "Package the application without running any maker",
		Long: strings.TrimSpace(`
appforge package runs only the external packaging step for each requested
(platform, arch) pair and prints where the packaged apps were written.

The packaging command is configured under make.packager in the appforge config
(default: npx --no-install electron-packager).

Examples:
  appforge package
  appforge package --platform linux --arch x64,arm64
  appforge package --platform all --out-dir dist --json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProject(packageOptions)
			if err != nil {
				return err
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}
			platforms, err := resolver.Platforms(packageOptions.Platform)
			if err != nil {
				return err
			}
			archs, err := models.ParseArchList(packageOptions.Arch)
			if err != nil {
				return err
			}
			outDir := packageOptions.OutDir
			if outDir != "" && !filepath.IsAbs(outDir) {
				outDir = filepath.Join(cfg.Dir, outDir)
			}

			var bundles []models.AppBundle
			err = withSpinner("Packaging "+cfg.AppName(), packageOptions.JSON, func() error {
				var err error
				bundles, err = project.Package(cmd.Context(), newPackager(), cfg, project.PackageRequest{
					Platforms: platforms,
					Archs:     archs,
					OutDir:    outDir,
				})
				return err
			})
			if err != nil {
				return err
			}

			if packageOptions.JSON {
				return printJSON(cmd, bundles)
			}
			rows := make([][]string, 0, len(bundles))
			for _, b := range bundles {
				rows = append(rows, []string{b.Target.String(), b.Path})
			}
			return style.PrintTable(cmd.OutOrStdout(), []string{"Target", "Path"}, rows, 0)
		},
	}
)

func init() {
	rootCmd.AddCommand(packageCmd)
	addForgeFlags(packageCmd, &packageOptions, false)
}
