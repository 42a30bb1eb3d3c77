package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultModel        = "gpt-4o"
	DefaultMaxSteps     = 50
	DefaultProjectDir   = "code"
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultHTTPRetries  = 2
	DefaultListMax      = 20
	DefaultCommandTail  = 245
	DefaultPreviewLines = 12
)

// ToolLimits controls output sizes of tools.
type ToolLimits struct {
	ListMaxResults   int `mapstructure:"list_max_results"`
	CommandTailChars int `mapstructure:"command_tail_chars"`
	PreviewMaxLines  int `mapstructure:"preview_max_lines"`
}

// Config holds runtime configuration values.
type Config struct {
	Model       string     `mapstructure:"model"`
	MaxSteps    int        `mapstructure:"max_steps"`
	ProjectDir  string     `mapstructure:"project_dir"`
	BaseURL     string     `mapstructure:"base_url"`
	APIKey      string     `mapstructure:"api_key"`
	HTTPRetries int        `mapstructure:"http_retries"`
	Verbose     bool       `mapstructure:"verbose"`
	Quiet       bool       `mapstructure:"quiet"`
	LogFile     string     `mapstructure:"log_file"`
	AuditDB     string     `mapstructure:"audit_db"`
	NoMarkdown  bool       `mapstructure:"no_markdown"`
	ToolLimits  ToolLimits `mapstructure:"tool_limits"`
}

// flagKeys maps config keys to persistent flag names.
var flagKeys = map[string]string{
	"model":       "model",
	"max_steps":   "max-steps",
	"project_dir": "project-dir",
	"base_url":    "base-url",
	"verbose":     "verbose",
	"quiet":       "quiet",
	"log_file":    "log-file",
	"audit_db":    "audit-db",
	"no_markdown": "no-markdown",
}

// Load resolves configuration from defaults, config files, env, and flags.
func Load(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model", DefaultModel)
	v.SetDefault("max_steps", DefaultMaxSteps)
	v.SetDefault("project_dir", DefaultProjectDir)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("api_key", "")
	v.SetDefault("http_retries", DefaultHTTPRetries)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_file", "")
	v.SetDefault("audit_db", "")
	v.SetDefault("no_markdown", false)
	v.SetDefault("tool_limits.list_max_results", DefaultListMax)
	v.SetDefault("tool_limits.command_tail_chars", DefaultCommandTail)
	v.SetDefault("tool_limits.preview_max_lines", DefaultPreviewLines)

	if cmd != nil {
		for key, flag := range flagKeys {
			if f := cmd.Flags().Lookup(flag); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	// The first non-empty variable wins; OPENAI_* are fallbacks.
	_ = v.BindEnv("api_key", "AUTOPILOT_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("base_url", "AUTOPILOT_BASE_URL", "OPENAI_BASE_URL")

	if err := loadConfigFile(v); err != nil {
		return Config{}, err
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", WeaklyTypedInput: true, Result: &cfg})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, err
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = DefaultProjectDir
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPRetries < 0 {
		cfg.HTTPRetries = 0
	}
	if cfg.ToolLimits.ListMaxResults <= 0 {
		cfg.ToolLimits.ListMaxResults = DefaultListMax
	}
	if cfg.ToolLimits.CommandTailChars <= 0 {
		cfg.ToolLimits.CommandTailChars = DefaultCommandTail
	}
	if cfg.ToolLimits.PreviewMaxLines <= 0 {
		cfg.ToolLimits.PreviewMaxLines = DefaultPreviewLines
	}
	return cfg, nil
}

// ConfigDir returns the directory searched for config.{yaml,yml,json}.
// AUTOPILOT_CONFIG_DIR overrides the user config location.
func ConfigDir() string {
	if dir := os.Getenv("AUTOPILOT_CONFIG_DIR"); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "autopilot")
}

func loadConfigFile(v *viper.Viper) error {
	base := ConfigDir()
	if base == "" {
		return nil
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		path := filepath.Join(base, name)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			return v.ReadInConfig()
		}
	}
	return nil
}
