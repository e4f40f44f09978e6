package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/maker"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/style"
	"github.com/yeisme/appforge/pkg/utils/plugin"
)

var (
	makerListJSON    bool
	makerListSource  string
	makerInfoJSON    bool
	makerInfoPlain   bool
	makerInfoPlatform string

	makerCmd = &cobra.Command{
		Use:     "maker",
		Short:   "Inspect built-in and external makers",
		Long:    `appforge maker lists the makers appforge can run and shows what each one declares.`,
		Aliases: []string{"makers"},
	}

	makerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List built-in makers and discovered maker plugins",
		Long: strings.TrimSpace(`
List every built-in maker and every appforge-maker-* executable found in:
  - User home directory (~/.appforge/makers)
  - Current directory (./.appforge/makers)
  - The directory configured by maker.path

Examples:
  appforge maker list
  appforge maker list --source user
  appforge maker list --json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isValidSource(makerListSource) {
				return fmt.Errorf("invalid source: %s, valid sources are: builtin, user, current, config", makerListSource)
			}
			rows := listMakers(makerListSource)
			if makerListJSON {
				return printJSON(cmd, rows)
			}
			if len(rows) == 0 {
				log.Warn().Msg("No makers found.")
				return nil
			}
			headers := []string{"NAME", "SOURCE", "DEFAULT FOR", "SUPPORTED", "PATH"}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{
					r.Name,
					r.Source,
					joinPlatforms(r.DefaultPlatforms),
					style.Status(r.Supported, "yes", "no"),
					r.Path,
				})
			}
			return style.PrintTable(cmd.OutOrStdout(), headers, table, 0)
		},
	}

	makerInfoCmd = &cobra.Command{
		Use:   "info <maker>",
		Short: "Show the descriptor of a maker",
		Long: strings.TrimSpace(`
Resolve a maker the same way make does and print what it declares.

Examples:
  appforge maker info zip
  appforge maker info deb --platform linux
  appforge maker info ./makers/snap --json`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			m, platform, err := resolveForInfo(newRegistry(cwd), args[0], makerInfoPlatform)
			if err != nil {
				return err
			}
			desc := m.Describe()
			if makerInfoJSON {
				return printJSON(cmd, desc)
			}

			out := cmd.OutOrStdout()
			if makerInfoPlain {
				if err := style.PrintHeading(out, desc.Name); err != nil {
					return err
				}
				return style.PrintKV(out, []style.KV{
					{Key: "Description", Value: desc.Description},
					{Key: "API version", Value: desc.APIVersion},
					{Key: "Default for", Value: joinPlatforms(desc.DefaultPlatforms)},
					{Key: "Capabilities", Value: joinCapabilities(desc.Capabilities)},
					{Key: "Config key", Value: desc.Key()},
					{Key: "Resolved for", Value: string(platform)},
					{Key: "Supported here", Value: fmt.Sprint(m.IsSupportedOnCurrentPlatform())},
				})
			}
			return style.RenderMarkdown(out, makerMarkdown(m, platform), 0, "")
		},
	}
)

// makerRow maker list 的一行
type makerRow struct {
	Name             string            `json:"name"`
	Source           string            `json:"source"`
	DefaultPlatforms []models.Platform `json:"default_platforms,omitempty"`
	Supported        bool              `json:"supported"`
	Path             string            `json:"path,omitempty"`
	Error            string            `json:"error,omitempty"`
}

func isValidSource(source string) bool {
	switch source {
	case "builtin", "user", "current", "config", "":
		return true
	default:
		return false
	}
}

func listMakers(source string) []makerRow {
	var rows []makerRow
	if source == "" || source == "builtin" {
		cwd, _ := os.Getwd()
		for _, entry := range newRegistry(cwd).Builtins() {
			desc := entry.Maker.Describe()
			rows = append(rows, makerRow{
				Name:             desc.Name,
				Source:           "BUILTIN/" + strings.ToUpper(string(entry.Family)),
				DefaultPlatforms: desc.DefaultPlatforms,
				Supported:        entry.Maker.IsSupportedOnCurrentPlatform(),
			})
		}
	}
	if source == "builtin" {
		return rows
	}

	pm := plugin.NewPluginManager(appCtx.Config.Maker.DirPath)
	plugins, err := pm.FindAllPlugins()
	if err != nil {
		log.Error().Err(err).Msg("Failed to find maker plugins")
		return rows
	}
	for _, p := range plugins {
		if !sourceMatches(p.Source, source) {
			continue
		}
		row := makerRow{Name: p.GetDisplayName(), Source: getSourceShortName(p.Source), Path: p.Path}
		ext, err := maker.LoadExternal(p.Path)
		if err == nil {
			err = maker.Validate(ext)
		}
		if err != nil {
			row.Error = err.Error()
			log.Warn().Err(err).Str("plugin", p.Path).Msg("invalid maker plugin")
		} else {
			desc := ext.Describe()
			row.Name = desc.Name
			row.DefaultPlatforms = desc.DefaultPlatforms
			row.Supported = ext.IsSupportedOnCurrentPlatform()
		}
		rows = append(rows, row)
	}
	return rows
}

func sourceMatches(s models.PluginSource, filter string) bool {
	switch filter {
	case "":
		return true
	case "user":
		return s == models.SourceUserHome
	case "current":
		return s == models.SourceCurrentDir
	case "config":
		return s == models.SourceConfig
	}
	return false
}

func getSourceShortName(source models.PluginSource) string {
	switch source {
	case models.SourceUserHome:
		return "USER"
	case models.SourceCurrentDir:
		return "LOCAL"
	case models.SourceConfig:
		return "CONFIG"
	default:
		return "UNKNOWN"
	}
}

// resolveForInfo 指定平台时按该平台解析，否则先试主机平台再试其余平台
func resolveForInfo(reg *maker.Registry, raw, platform string) (maker.Maker, models.Platform, error) {
	spec := models.ParseMakerSpec(raw)
	if platform != "" {
		p, err := models.ParsePlatform(platform)
		if err != nil {
			return nil, "", err
		}
		m, err := reg.Resolve(spec, p)
		return m, p, err
	}

	host := models.HostPlatform()
	m, firstErr := reg.Resolve(spec, host)
	if firstErr == nil {
		return m, host, nil
	}
	for _, p := range models.Platforms() {
		if p == host {
			continue
		}
		if m, err := reg.Resolve(spec, p); err == nil {
			return m, p, nil
		}
	}
	return nil, "", firstErr
}

func makerMarkdown(m maker.Maker, platform models.Platform) string {
	desc := m.Describe()
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", desc.Name)
	if desc.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", desc.Description)
	}
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| API version | `%s` |\n", desc.APIVersion)
	fmt.Fprintf(&b, "| Default for | %s |\n", orDash(joinPlatforms(desc.DefaultPlatforms)))
	fmt.Fprintf(&b, "| Capabilities | %s |\n", orDash(joinCapabilities(desc.Capabilities)))
	fmt.Fprintf(&b, "| Config key | `maker_config.%s` |\n", desc.Key())
	fmt.Fprintf(&b, "| Resolved for | %s |\n", platform)
	fmt.Fprintf(&b, "| Supported on this host | %v |\n", m.IsSupportedOnCurrentPlatform())
	if ext, ok := m.(*maker.External); ok {
		fmt.Fprintf(&b, "| Command | `%s` |\n", ext.Path())
	}
	return b.String()
}

func joinPlatforms(ps []models.Platform) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

func joinCapabilities(cs []maker.Capability) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(makerCmd)
	makerCmd.AddCommand(makerListCmd, makerInfoCmd)

	makerListCmd.Flags().BoolVar(&makerListJSON, "json", false, "output in JSON format")
	makerListCmd.Flags().StringVarP(&makerListSource, "source", "s", "", "filter by source: builtin, user, current, config")

	makerInfoCmd.Flags().BoolVar(&makerInfoJSON, "json", false, "output the descriptor as JSON")
	makerInfoCmd.Flags().BoolVar(&makerInfoPlain, "plain", false, "print plain key/value output instead of markdown")
	makerInfoCmd.Flags().StringVarP(&makerInfoPlatform, "platform", "p", "", "platform to resolve the maker for (default: host, then any)")
}
