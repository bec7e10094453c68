package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "reel-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Fatalf("Failed to remove temp directory: %v", err)
		}
	})

	tmpConfigPath := filepath.Join(tmpDir, "config.yaml")
	setEnv(t, "REEL_CONFIG_PATH", tmpConfigPath)

	t.Cleanup(func() {
		cleanupEnvVars(t)
	})

	return tmpConfigPath
}

// TestConfigIntegration tests the config package with actual file operations
// This test uses a temporary directory to avoid interfering with real user configs
func TestConfigIntegration(t *testing.T) {
	// Test loading when no config exists (should create default)
	t.Run("LoadDefaultConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		config := loadConfig(t)

		// Verify default values
		assert.Equal(t, "127.0.0.1:7878", config.Server.Listen)
		assert.True(t, config.OpenBrowserEnabled())
		assert.Empty(t, config.Server.Browser)
		assert.True(t, config.IPCEnabled())
		assert.Equal(t, 600, config.Player.Width)
		assert.Equal(t, 450, config.Player.Height)
		assert.Equal(t, []string{"youtube", "dailymotion", "vimeo", "soundcloud"}, config.Player.Platforms)
		assert.Equal(t, 50*time.Millisecond, config.Player.SyncInterval)
		assert.Equal(t, 20*time.Second, config.Player.ReadyTimeout)
		assert.True(t, config.Player.Session().Autoplay)
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "json", config.Logging.Format)
		assert.NotEmpty(t, config.Logging.FilePath)
		assert.NotEmpty(t, config.IPC.SocketPath)

		// Verify file was created
		if _, err := os.Stat(tmpConfigPath); os.IsNotExist(err) {
			t.Errorf("Config file was not created at %s", tmpConfigPath)
		}

		// Load the file from disk to assert that the 'dynamic' configurations were not saved when the default config was written
		savedConfig, _ := loadFromDisk(tmpConfigPath)
		assert.Empty(t, savedConfig.Logging.FilePath)
		assert.Empty(t, savedConfig.IPC.SocketPath)

		// Durations are written in their readable form
		data, err := os.ReadFile(tmpConfigPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "sync_interval: 50ms")
	})

	// Test saving and loading custom values
	t.Run("SaveAndLoadConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		// Create a config with custom values
		customConfig := &Config{
			Server: ServerConfig{
				Listen:      "0.0.0.0:9000",
				OpenBrowser: boolPtr(false),
				Browser:     "firefox --new-window {url}",
			},
			IPC: IPCConfig{
				Enabled:    boolPtr(false),
				SocketPath: "/tmp/custom.sock",
			},
			Player: PlayerConfig{
				Width:        1280,
				Height:       720,
				Autoplay:     boolPtr(false),
				Platforms:    []string{"vimeo", "youtube"},
				SyncInterval: 250 * time.Millisecond,
			},
			Logging: LoggingConfig{
				Level:    "error",
				FilePath: "/var/log/reel.log",
				Format:   "text",
			},
		}

		saveConfig(t, customConfig, tmpConfigPath)
		loadedConfig := loadConfig(t)

		// Verify loaded values match what we saved
		assert.Equal(t, "0.0.0.0:9000", loadedConfig.Server.Listen)
		assert.False(t, loadedConfig.OpenBrowserEnabled())
		assert.Equal(t, "firefox --new-window {url}", loadedConfig.Server.Browser)
		assert.False(t, loadedConfig.IPCEnabled())
		assert.Equal(t, "/tmp/custom.sock", loadedConfig.IPC.SocketPath)
		assert.Equal(t, 1280, loadedConfig.Player.Width)
		assert.Equal(t, 720, loadedConfig.Player.Height)
		assert.False(t, loadedConfig.Player.Session().Autoplay)
		assert.Equal(t, []string{"vimeo", "youtube"}, loadedConfig.Player.Platforms)
		assert.Equal(t, 250*time.Millisecond, loadedConfig.Player.SyncInterval)
		// Values missing from the file keep their defaults
		assert.Equal(t, 50*time.Millisecond, loadedConfig.Player.ReconcileDelay)
		assert.Equal(t, "error", loadedConfig.Logging.Level)
		assert.Equal(t, "/var/log/reel.log", loadedConfig.Logging.FilePath)
		assert.Equal(t, "text", loadedConfig.Logging.Format)
	})

	// Test invalid YAML handling
	t.Run("InvalidConfig", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		// Write invalid YAML to the config file
		if err := os.WriteFile(tmpConfigPath, []byte("invalid: yaml: ["), 0600); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		// Attempt to load the invalid config
		_, err := Load()
		if err == nil {
			t.Error("Expected error when loading invalid YAML, got nil")
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		yml := "player:\n  sync_interval: -5ms\nlogging:\n  level: loud\n"
		require.NoError(t, os.WriteFile(tmpConfigPath, []byte(yml), 0600))

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "player.sync_interval")
		assert.Contains(t, err.Error(), "logging.level")
	})

	t.Run("EnvironmentVariableOverrides", func(t *testing.T) {
		setupTestConfig(t)

		setEnv(t, "REEL_CONFIG_SERVER_LISTEN", "localhost:1234")
		setEnv(t, "REEL_CONFIG_SERVER_OPEN_BROWSER", "0")
		setEnv(t, "REEL_CONFIG_IPC_ENABLED", "false")
		setEnv(t, "REEL_CONFIG_IPC_SOCKET_PATH", "/run/reel.sock")
		setEnv(t, "REEL_CONFIG_PLAYER_WIDTH", "320")
		setEnv(t, "REEL_CONFIG_PLAYER_AUTOPLAY", "false")
		setEnv(t, "REEL_CONFIG_PLAYER_PLATFORMS", "soundcloud, youtube")
		setEnv(t, "REEL_CONFIG_PLAYER_READY_TIMEOUT", "3s")
		setEnv(t, "REEL_CONFIG_LOGGING_LEVEL", "warn")
		setEnv(t, "REEL_CONFIG_LOGGING_FILE_PATH", "/reel.log")

		config := loadConfig(t)

		assert.Equal(t, "localhost:1234", config.Server.Listen)
		assert.False(t, config.OpenBrowserEnabled())
		assert.False(t, config.IPCEnabled())
		assert.Equal(t, "/run/reel.sock", config.IPC.SocketPath)
		assert.Equal(t, 320, config.Player.Width)
		assert.False(t, config.Player.Session().Autoplay)
		assert.Equal(t, []string{"soundcloud", "youtube"}, config.Player.Platforms)
		assert.Equal(t, 3*time.Second, config.Player.ReadyTimeout)
		assert.Equal(t, "warn", config.Logging.Level)
		assert.Equal(t, "/reel.log", config.Logging.FilePath)

		// Remove the REEL_CONFIG_LOGGING_LEVEL env var, then reload the config.
		// This ensures that the env var overrides were not persisted to disk.
		unsetEnv(t, "REEL_CONFIG_LOGGING_LEVEL")

		config = loadConfig(t)

		assert.Equal(t, "info", config.Logging.Level)
	})

	// A default file that cannot be written must not stop startup
	t.Run("UnwritableConfigPathFallsBackToDefaults", func(t *testing.T) {
		tmpConfigPath := setupTestConfig(t)
		blocker := filepath.Join(filepath.Dir(tmpConfigPath), "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
		setEnv(t, "REEL_CONFIG_PATH", filepath.Join(blocker, "sub", "config.yaml"))
		setEnv(t, "REEL_CONFIG_LOGGING_LEVEL", "debug")

		config := loadConfig(t)
		assert.Equal(t, "127.0.0.1:7878", config.Server.Listen)
		assert.Equal(t, 600, config.Player.Width)
		assert.NotEmpty(t, config.Logging.FilePath)
		assert.Equal(t, "debug", config.Logging.Level)
	})

	t.Run("InvalidEnvironmentVariable", func(t *testing.T) {
		setupTestConfig(t)
		setEnv(t, "REEL_CONFIG_PLAYER_HEIGHT", "tall")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REEL_CONFIG_PLAYER_HEIGHT")
	})
}

func TestEnvVarsAreDocumented(t *testing.T) {
	vars := EnvVars()
	require.Len(t, vars, len(supportedEnvVars))
	for _, v := range vars {
		assert.True(t, strings.HasPrefix(v.Name, "REEL_CONFIG_"), v.Name)
		assert.Contains(t, v.Description, "Default", v.Name)
	}
}

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	err := os.Setenv(key, value)
	if err != nil {
		t.Fatalf("Failed to set environment variable: %v", err)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	err := os.Unsetenv(key)
	if err != nil {
		t.Fatalf("Failed to unset environment variable: %v", err)
	}
}

func saveConfig(t *testing.T, config *Config, configPath string) {
	t.Helper()
	if err := save(config, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
}

func loadConfig(t *testing.T) *Config {
	t.Helper()
	config, err := Load()
	if err != nil {
		t.Fatalf("Loading of config failed: %v", err)
	}
	return config
}

// Removes any env vars with the REEL_CONFIG prefix to ensure test isolation
func cleanupEnvVars(t *testing.T) {
	t.Helper()

	for _, envVar := range os.Environ() {
		if key := strings.Split(envVar, "=")[0]; strings.HasPrefix(key, "REEL_CONFIG") {
			unsetEnv(t, key)
		}
	}
}
