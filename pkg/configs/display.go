package configs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yeisme/appforge/pkg/style"
	"gopkg.in/yaml.v3"
)

// OutputFormat 输出格式类型
type OutputFormat string

const (
	// FormatYAML represents the YAML output format.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON represents the JSON output format.
	FormatJSON OutputFormat = "json"
	// FormatTOML represents the TOML output format.
	FormatTOML OutputFormat = "toml"
	// FormatText represents the plain text output format.
	FormatText OutputFormat = "text"
)

// ValidFormats 返回所有有效的输出格式
func ValidFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML), string(FormatText)}
}

// ParseOutputFormat 解析输出格式字符串
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format '%s', supported formats: %s", format, strings.Join(ValidFormats(), ", "))
	}
}

// GetOutputFormatFromFlags 从命令行标志获取输出格式，--format 优先，其次是 --yaml/--json/--toml/--text
func GetOutputFormatFromFlags(cmd *cobra.Command) OutputFormat {
	if formatFlag, _ := cmd.Flags().GetString("format"); formatFlag != "" {
		if format, err := ParseOutputFormat(formatFlag); err == nil {
			return format
		}
	}
	for _, f := range []OutputFormat{FormatYAML, FormatJSON, FormatTOML, FormatText} {
		if set, _ := cmd.Flags().GetBool(string(f)); set {
			return f
		}
	}
	return FormatYAML
}

// encode 将数据编码为指定格式
func encode(data any, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to close YAML encoder: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return append(b, '\n'), nil
	case FormatTOML:
		b, err := toml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to TOML: %w", err)
		}
		return b, nil
	case FormatText:
		return fmt.Appendf(nil, "%+v\n", data), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// OutputData 根据指定格式输出数据，color 仅对 JSON 生效
func OutputData(data any, format OutputFormat, out io.Writer, color bool) error {
	b, err := encode(data, format)
	if err != nil {
		return err
	}
	if format == FormatJSON && color {
		return style.PrintJSON(out, b)
	}
	_, err = out.Write(b)
	return err
}

// GetConfigSection 从 viper 实例获取指定配置段
// showAll 为 true 时返回解析后的结构体（包含默认值），否则返回 viper 原始数据
func GetConfigSection(v *viper.Viper, section string, showAll bool) (any, error) {
	lowerSection := strings.ToLower(section)

	if showAll {
		var config Config
		if err := v.Unmarshal(&config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if section == "" {
			return config, nil
		}

		// 按 mapstructure 标签查找配置段
		val := reflect.ValueOf(config)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			if strings.EqualFold(typ.Field(i).Tag.Get("mapstructure"), lowerSection) {
				return val.Field(i).Interface(), nil
			}
		}
		return nil, fmt.Errorf("unknown configuration section: %s", section)
	}

	if lowerSection == "" {
		return v.AllSettings(), nil
	}
	if v.IsSet(lowerSection) {
		return v.Get(lowerSection), nil
	}
	return nil, fmt.Errorf("unknown or unset configuration section %s", section)
}

// CreateDefaultConfig 将当前默认配置写入 path，文件已存在时报错
func CreateDefaultConfig(path string, format OutputFormat) error {
	if format == FormatText {
		return fmt.Errorf("text format is not supported for config files")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	setDefaults()
	b, err := encode(viper.AllSettings(), format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir failed: %w", err)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
