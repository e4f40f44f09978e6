package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/configs"
	"github.com/yeisme/appforge/pkg/project"
	"github.com/yeisme/appforge/pkg/utils/schema"
)

var (
	noColor bool

	configCmd = &cobra.Command{
		Use:     "config",
		Short:   "Manage appforge configuration",
		Long:    `appforge config allows you to view and manage your appforge configuration settings.`,
		Aliases: []string{"c"},
	}

	configValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate appforge configuration",
		Long: `appforge config validate checks the configuration file and environment variables.

It reads the config file again, checks the make.host_platforms table and reports
whether the s3 publisher is usable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileUsed := appCtx.Viper.ConfigFileUsed()
			if fileUsed != "" {
				if err := appCtx.Viper.ReadInConfig(); err != nil {
					return fmt.Errorf("config file error: %w", err)
				}
			}
			if _, err := project.ParseHostPlatforms(appCtx.Config.Make.HostPlatforms); err != nil {
				return err
			}

			if fileUsed == "" {
				fileUsed = "(defaults)"
			}
			log.Info().Msgf("Config file used: %s", fileUsed)
			log.Info().Bool("s3", appCtx.Config.Publish.S3.Configured()).Msg("publishers")
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return err
		},
		Aliases: []string{"check", "verify"},
	}

	configListCmd = &cobra.Command{
		Use:   "list [section]",
		Short: "List appforge configuration",
		Long: `appforge config list displays the current configuration settings.

You can specify a section to display only that part of the configuration:
  - app: Application settings
  - log: Logging settings
  - make: Packaging command, default out dir and host platform table
  - maker: Maker plugin directory
  - publish: Publisher settings

Examples:
  appforge config list                    # Show all configuration (viper raw data)
  appforge config list --all              # Show all configuration with defaults
  appforge config list make               # Show only make settings
  appforge config list --format toml      # Output in TOML format
  appforge config list --json             # Output in JSON format
  appforge config list make --all --json  # Show make config with defaults in JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) > 0 {
				section = args[0]
			}

			// 确定输出格式
			format := configs.GetOutputFormatFromFlags(cmd)

			// 检查是否显示完整配置（包含默认值）
			showAll, _ := cmd.Flags().GetBool("all")

			data, err := configs.GetConfigSection(appCtx.Viper, section, showAll)
			if err != nil {
				return fmt.Errorf("error getting config section: %w", err)
			}
			return configs.OutputData(data, format, cmd.OutOrStdout(), !noColor)
		},
		Aliases: []string{"ls"},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize appforge configuration",
		Long: `appforge config init creates a new configuration file with default settings.

Examples:
  appforge config init                                  # Create .appforge.yaml in current directory
  appforge config init --path ~/.config/appforge/appforge.yaml
  appforge config init --format toml                    # Create TOML format config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			formatStr, _ := cmd.Flags().GetString("format")

			format, err := configs.ParseOutputFormat(formatStr)
			if err != nil {
				return err
			}
			if format == configs.FormatText {
				return fmt.Errorf("text format is not supported for config files")
			}

			// 如果没有指定路径，使用默认路径
			if path == "" {
				path = ".appforge." + string(format)
			}

			if err := configs.CreateDefaultConfig(path, format); err != nil {
				return err
			}
			log.Info().Msgf("Config file created successfully: %s", path)
			return nil
		},
		Args: cobra.NoArgs,
	}

	configSchemaCmd = &cobra.Command{
		Use:   "schema [app|project|maker]",
		Short: "Print the JSON schema of a configuration file",
		Long: `appforge config schema prints a JSON schema usable by editors:
  - app: the appforge config file (.appforge.yaml)
  - project: config.forge in package.json or forge.config.{yaml,json,toml}
  - maker: the maker.{yaml,json,toml} manifest of an external maker`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"app", "project", "maker"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "project"
			if len(args) > 0 {
				kind = args[0]
			}
			gens := map[string]func(io.Writer) error{
				"app":     schema.GenConfigSchema,
				"project": schema.GenProjectSchema,
				"maker":   schema.GenManifestSchema,
			}
			gen, ok := gens[kind]
			if !ok {
				return fmt.Errorf("unknown schema %q, expected app, project or maker", kind)
			}
			return gen(cmd.OutOrStdout())
		},
	}
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(
		configListCmd,
		configValidateCmd,
		configInitCmd,
		configSchemaCmd,
	)

	// 添加 config list 标志
	configListCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	configListCmd.Flags().StringP("format", "f", "", fmt.Sprintf("Output format (%s)", strings.Join(configs.ValidFormats(), ", ")))
	configListCmd.Flags().Bool("yaml", false, "Output in YAML format")
	configListCmd.Flags().Bool("json", false, "Output in JSON format")
	configListCmd.Flags().Bool("toml", false, "Output in TOML format")
	configListCmd.Flags().Bool("text", false, "Output in plain text format")
	configListCmd.Flags().BoolP("all", "a", false, "Show complete configuration with defaults (processed struct)")

	// 添加 config init 标志
	configInitCmd.Flags().StringP("path", "p", "", "Path to the config file")
	configInitCmd.Flags().StringP("format", "f", "yaml", "Format of the config file (yaml, json, toml)")
}
