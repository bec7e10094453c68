package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const envConfigPath = "REEL_CONFIG_PATH"

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string) error
}

// EnvVar documents one supported environment variable override
type EnvVar struct {
	Name        string
	Description string
}

var supportedEnvVars = []envVar{
	{
		// Only here for documentation purposes.  Does not override any values in the config as this environment variable
		// points to where the config should be loaded.  It is handled prior to loading the config.
		name:  envConfigPath,
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) error { return nil }, // Special case, no-op
	},
	{
		name:  "REEL_CONFIG_SERVER_LISTEN",
		desc:  "Sets the address the HTTP server and host page listen on.  Default: 127.0.0.1:7878",
		apply: func(c *Config, s string) error { c.Server.Listen = s; return nil },
	},
	{
		name:  "REEL_CONFIG_SERVER_OPEN_BROWSER",
		desc:  "Opens the host page in a browser when the console starts.  Default: true",
		apply: func(c *Config, s string) error { return parseBool(s, &c.Server.OpenBrowser) },
	},
	{
		name:  "REEL_CONFIG_SERVER_BROWSER",
		desc:  "Sets a custom command opening the host page.  {url} is replaced by the page address.  Default: the OS handler",
		apply: func(c *Config, s string) error { c.Server.Browser = s; return nil },
	},
	{
		name:  "REEL_CONFIG_IPC_ENABLED",
		desc:  "Enables the JSON IPC control socket.  Default: true",
		apply: func(c *Config, s string) error { return parseBool(s, &c.IPC.Enabled) },
	},
	{
		name:  "REEL_CONFIG_IPC_SOCKET_PATH",
		desc:  "Sets the IPC socket path, or the pipe name on windows.  Default: OS-specific",
		apply: func(c *Config, s string) error { c.IPC.SocketPath = s; return nil },
	},
	{
		name:  "REEL_CONFIG_PLAYER_WIDTH",
		desc:  "Sets the initial player width in pixels.  Default: 600",
		apply: func(c *Config, s string) error { return parseInt(s, &c.Player.Width) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_HEIGHT",
		desc:  "Sets the initial player height in pixels.  Default: 450",
		apply: func(c *Config, s string) error { return parseInt(s, &c.Player.Height) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_AUTOPLAY",
		desc:  "Starts playback as soon as content is loaded.  Default: true",
		apply: func(c *Config, s string) error { return parseBool(s, &c.Player.Autoplay) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_PLATFORMS",
		desc:  "Comma separated list of enabled platforms in priority order.  Default: youtube,dailymotion,vimeo,soundcloud",
		apply: func(c *Config, s string) error {
			var platforms []string
			for _, p := range strings.Split(s, ",") {
				if p = strings.TrimSpace(p); p != "" {
					platforms = append(platforms, p)
				}
			}
			c.Player.Platforms = platforms
			return nil
		},
	},
	{
		name:  "REEL_CONFIG_PLAYER_SYNC_INTERVAL",
		desc:  "Sets how often the live player is polled.  Default: 50ms",
		apply: func(c *Config, s string) error { return parseDuration(s, &c.Player.SyncInterval) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_RECONCILE_DELAY",
		desc:  "Sets the delay before an unsupported fullscreen or pip request is reported as off.  Default: 50ms",
		apply: func(c *Config, s string) error { return parseDuration(s, &c.Player.ReconcileDelay) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_READY_TIMEOUT",
		desc:  "Sets how long a new player may take to report ready.  Default: 20s",
		apply: func(c *Config, s string) error { return parseDuration(s, &c.Player.ReadyTimeout) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_DESTROY_TIMEOUT",
		desc:  "Sets how long destroying a player may take.  Default: 5s",
		apply: func(c *Config, s string) error { return parseDuration(s, &c.Player.DestroyTimeout) },
	},
	{
		name:  "REEL_CONFIG_PLAYER_SDK_LOAD_TIMEOUT",
		desc:  "Sets how long loading a platform SDK script may take.  Default: 30s",
		apply: func(c *Config, s string) error { return parseDuration(s, &c.Player.SDKLoadTimeout) },
	},
	{
		name:  "REEL_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: trace, debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) error { c.Logging.Level = s; return nil },
	},
	{
		name:  "REEL_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) error { c.Logging.FilePath = s; return nil },
	},
	{
		name:  "REEL_CONFIG_LOGGING_FORMAT",
		desc:  "Sets the log line format.  One of: json, text.  Default: json",
		apply: func(c *Config, s string) error { c.Logging.Format = s; return nil },
	},
}

// EnvVars lists every supported environment variable override
func EnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(supportedEnvVars))
	for _, v := range supportedEnvVars {
		vars = append(vars, EnvVar{Name: v.name, Description: v.desc})
	}
	return vars
}

func applyEnvVarOverrides(c *Config) error {
	for _, envVar := range supportedEnvVars {
		if value := os.Getenv(envVar.name); value != "" {
			if err := envVar.apply(c, value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar.name, err)
			}
		}
	}
	return nil
}

func parseInt(s string, dst *int) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseBool(s string, dst **bool) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
