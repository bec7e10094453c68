package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"dario.cat/mergo"
	"github.com/PizzaHomicide/reel/internal/ipc"
	"github.com/PizzaHomicide/reel/internal/session"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	IPC     IPCConfig     `yaml:"ipc,omitempty"`
	Player  PlayerConfig  `yaml:"player,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig contains the HTTP server settings.  The host page is served from the same address.
type ServerConfig struct {
	Listen string `yaml:"listen,omitempty"`
	// OpenBrowser opens the host page when the console starts
	OpenBrowser *bool `yaml:"open_browser,omitempty"`
	// Browser is a custom command opening the page.  {url} is replaced by the page address, otherwise it is appended.
	Browser string `yaml:"browser,omitempty"`
}

// IPCConfig contains the control socket settings
type IPCConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"`
	SocketPath string `yaml:"socket_path,omitempty"`
}

// PlayerConfig contains the player session settings
type PlayerConfig struct {
	Width    int   `yaml:"width,omitempty"`
	Height   int   `yaml:"height,omitempty"`
	Autoplay *bool `yaml:"autoplay,omitempty"`
	// Platforms lists the enabled platforms in classification priority order
	Platforms      []string      `yaml:"platforms,omitempty"`
	SyncInterval   time.Duration `yaml:"sync_interval,omitempty"`
	ReconcileDelay time.Duration `yaml:"reconcile_delay,omitempty"`
	ReadyTimeout   time.Duration `yaml:"ready_timeout,omitempty"`
	DestroyTimeout time.Duration `yaml:"destroy_timeout,omitempty"`
	SDKLoadTimeout time.Duration `yaml:"sdk_load_timeout,omitempty"`
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
	Format   string `yaml:"format,omitempty"`
}

// Load builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Apply 'dynamic' properties.  Dynamic properties are those that are determined at runtime, for example log file location which is different per OS.
// 4. Load & merge the config file, overwriting any defaults with user-specified values
// 5. Apply environment variable overrides
// 6. Validate the result
func Load() (*Config, error) {
	// 1. Start with base defaults
	cfg := createBaseDefaultConfig()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to determine config file path: %w", err)
	}

	// 2. If no config file exists on disk, then write a default one.  If that fails the application still starts,
	// on defaults alone.
	haveFile := true
	if _, err := os.Stat(configPath); isMissing(err) {
		haveFile = save(cfg, configPath) == nil
	}

	// 3. Apply dynamic defaults if necessary
	applyDynamicDefaults(cfg)

	// 4. Load the config from disk and merge it into the base defaults
	if haveFile {
		fileConfig, err := loadFromDisk(configPath)
		if err != nil {
			return nil, err
		}
		// Overrides the config with any values coming from the loaded file.  Pointers are replaced rather than merged
		// into, so an explicit false in the file beats a true default.
		if err = mergo.Merge(cfg, fileConfig, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return nil, fmt.Errorf("error merging config loaded from disk: %w", err)
		}
	}

	// 5. Apply the environment variable overrides which take precedence
	if err := applyEnvVarOverrides(cfg); err != nil {
		return nil, err
	}

	// 6. Reject values the rest of the application cannot work with
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the value ranges.  Platform names are checked against the registry at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen must not be empty"))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, fmt.Errorf("player size must be positive, got %dx%d", c.Player.Width, c.Player.Height))
	}
	if len(c.Player.Platforms) == 0 {
		errs = append(errs, errors.New("player.platforms must enable at least one platform"))
	}
	for name, d := range map[string]time.Duration{
		"player.sync_interval":    c.Player.SyncInterval,
		"player.reconcile_delay":  c.Player.ReconcileDelay,
		"player.ready_timeout":    c.Player.ReadyTimeout,
		"player.destroy_timeout":  c.Player.DestroyTimeout,
		"player.sdk_load_timeout": c.Player.SDKLoadTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// IPCEnabled reports whether the control socket should be served
func (c *Config) IPCEnabled() bool {
	return c.IPC.Enabled == nil || *c.IPC.Enabled
}

// OpenBrowserEnabled reports whether the console should open the host page
func (c *Config) OpenBrowserEnabled() bool {
	return c.Server.OpenBrowser == nil || *c.Server.OpenBrowser
}

// Session returns the player session settings
func (p PlayerConfig) Session() session.Config {
	return session.Config{
		Width:          p.Width,
		Height:         p.Height,
		Autoplay:       p.Autoplay == nil || *p.Autoplay,
		SyncInterval:   p.SyncInterval,
		ReconcileDelay: p.ReconcileDelay,
		ReadyTimeout:   p.ReadyTimeout,
		DestroyTimeout: p.DestroyTimeout,
	}
}

// applyDynamicDefaults sets runtime-determined default values for any properties that haven't been explicitly configured.
// Unlike static defaults, these values might change between runs based on the environment or system configuration.
func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = defaultLogFilePath()
	cfg.IPC.SocketPath = ipc.DefaultSocketPath()
}

// loadFromDisk loads the YAML config from disk and returns the unmarshalled Config
// isMissing reports whether a stat error means there is no file at the path, including a parent that is not a
// directory
func isMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func loadFromDisk(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func save(cfg *Config, configPath string) error {
	// Create config dir if not exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Path returns the config file location, for display
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file.  Uses the environment variable override if present, else tries
// to use OS config location defaults.
func getConfigPath() (string, error) {
	configPath := os.Getenv(envConfigPath)
	if configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "reel", "config.yaml"), nil
}

// createBaseDefaultConfig creates a config with all static default values
func createBaseDefaultConfig() *Config {
	defaults := session.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Listen:      "127.0.0.1:7878",
			OpenBrowser: boolPtr(true),
		},
		IPC: IPCConfig{
			Enabled: boolPtr(true),
		},
		Player: PlayerConfig{
			Width:          defaults.Width,
			Height:         defaults.Height,
			Autoplay:       boolPtr(defaults.Autoplay),
			Platforms:      []string{"youtube", "dailymotion", "vimeo", "soundcloud"},
			SyncInterval:   defaults.SyncInterval,
			ReconcileDelay: defaults.ReconcileDelay,
			ReadyTimeout:   defaults.ReadyTimeout,
			DestroyTimeout: defaults.DestroyTimeout,
			SDKLoadTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// defaultLogFilePath returns the path to the log file.  Tries to use expected OS location defaults.
func defaultLogFilePath() string {
	var basePath string
	homedir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to logging in the current directory if home directory cannot be determined
		return filepath.Join(".", "reel.log")
	}

	switch runtime.GOOS {
	case "windows":
		// Windows:  %LOCALAPPDATA%\reel\logs
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, "reel", "logs")
		} else {
			basePath = filepath.Join(homedir, "AppData", "local", "reel", "logs")
		}
	case "darwin":
		// macOS:  ~/Library/Logs/reel
		basePath = filepath.Join(homedir, "Library", "Logs", "reel")
	default:
		// Linux/BSD:  XDG_STATE_HOME
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, "reel", "logs")
		} else {
			basePath = filepath.Join(homedir, ".local", "state", "reel", "logs")
		}
	}

	return filepath.Join(basePath, "reel.log")
}
