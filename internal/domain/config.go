package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Fetch        FetchConfig        `mapstructure:"fetch"`
	History      HistoryConfig      `mapstructure:"history"`
	Civitai      CivitaiConfig      `mapstructure:"civitai"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// FetchConfig contains download-engine configuration
type FetchConfig struct {
	DestDir        string        `mapstructure:"dest_dir"`
	LogsDir        string        `mapstructure:"logs_dir"`
	SkipExisting   bool          `mapstructure:"skip_existing"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
}

// HistoryConfig contains run-history persistence configuration
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// CivitaiConfig contains Civitai-specific configuration. The host rejects
// default client identifiers, so requests to it carry UserAgent instead.
type CivitaiConfig struct {
	APIKey    string `mapstructure:"api_key"`
	UserAgent string `mapstructure:"user_agent"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Method  string `mapstructure:"method"` // osascript, notify-send, etc.
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// RunConfig is the immutable per-run parameter set handed to the engine.
// The credential is resolved once before the run starts; the engine never
// reads ambient state at call time.
type RunConfig struct {
	DestDir      string
	SkipExisting bool
	RetryCount   int
	RetryDelay   time.Duration
	Credential   string
}

// RunConfig builds a per-run parameter set from the configured defaults
func (c *Config) RunConfig(credential string) RunConfig {
	return RunConfig{
		DestDir:      c.Fetch.DestDir,
		SkipExisting: c.Fetch.SkipExisting,
		RetryCount:   c.Fetch.MaxRetries,
		RetryDelay:   c.Fetch.RetryDelay,
		Credential:   credential,
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Fetch: FetchConfig{
			DestDir:        "$HOME/Downloads/url-scoop",
			LogsDir:        "$HOME/Downloads/url-scoop/logs",
			SkipExisting:   true,
			MaxRetries:     3,
			RetryDelay:     2 * time.Second,
			RequestTimeout: 60 * time.Second,
			ProbeTimeout:   10 * time.Second,
		},
		History: HistoryConfig{
			DatabasePath: "$HOME/Downloads/url-scoop/config/history.db",
		},
		Civitai: CivitaiConfig{
			APIKey:    "",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Sound:   false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
