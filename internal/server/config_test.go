package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hanabi.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, 350*time.Millisecond, cfg.BotDelay())
}

func TestLoadServerConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address      = "0.0.0.0"
  port         = 9000
  log_level    = "debug"
  bot_delay_ms = 0
}

room "duo" {
  players = 2
  bots    = 1
}

room "open" {}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.BotDelay())

	require.Len(t, cfg.Rooms, 2)
	duo := cfg.GetRoomByName("duo")
	require.NotNil(t, duo)
	assert.Equal(t, 2, duo.Players)
	assert.Equal(t, 1, duo.Bots)

	open := cfg.GetRoomByName("open")
	require.NotNil(t, open)
	assert.Equal(t, 5, open.Players, "seats default to the maximum")
	assert.Equal(t, 0, open.Bots)

	assert.Nil(t, cfg.GetRoomByName("missing"))
}

func TestLoadServerConfigDefaultsServerFields(t *testing.T) {
	cfg, err := LoadServerConfig(writeConfig(t, `server {}`))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 350*time.Millisecond, cfg.BotDelay())
	assert.Empty(t, cfg.Rooms)
}

func TestLoadServerConfigParseError(t *testing.T) {
	_, err := LoadServerConfig(writeConfig(t, `server {`))
	assert.Error(t, err)

	_, err = LoadServerConfig(writeConfig(t, `server { colour = "red" }`))
	assert.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"bad port", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"negative delay", func(c *ServerConfig) { d := -1; c.Server.BotDelayMs = &d }},
		{"too few seats", func(c *ServerConfig) { c.Rooms[0].Players = 1 }},
		{"too many seats", func(c *ServerConfig) { c.Rooms[0].Players = 6 }},
		{"bots fill room", func(c *ServerConfig) { c.Rooms[0].Bots = c.Rooms[0].Players }},
		{"duplicate room", func(c *ServerConfig) { c.Rooms = append(c.Rooms, c.Rooms[0]) }},
		{"unnamed room", func(c *ServerConfig) { c.Rooms[0].Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
