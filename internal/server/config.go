package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/hanabi/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Rooms  []RoomConfig   `hcl:"room,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address    string `hcl:"address,optional"`
	Port       int    `hcl:"port,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	BotDelayMs *int   `hcl:"bot_delay_ms,optional"`
}

// RoomConfig defines a room that exists from startup
type RoomConfig struct {
	Name    string `hcl:"name,label"`
	Players int    `hcl:"players,optional"` // seats, humans and bots together
	Bots    int    `hcl:"bots,optional"`    // bots seated when the game starts
}

const (
	defaultAddress = "localhost"
	defaultPort    = 8080
	defaultSeats   = game.MaxPlayers
	defaultBots    = 1
)

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	delay := int(game.DefaultBotDelay / time.Millisecond)
	return &ServerConfig{
		Server: ServerSettings{
			Address:    defaultAddress,
			Port:       defaultPort,
			LogLevel:   "info",
			BotDelayMs: &delay,
		},
		Rooms: []RoomConfig{
			{
				Name:    "lobby",
				Players: defaultSeats,
				Bots:    defaultBots,
			},
		},
	}
}

// LoadServerConfig loads server configuration from HCL file. A missing file
// yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.BotDelayMs == nil {
		delay := int(game.DefaultBotDelay / time.Millisecond)
		c.Server.BotDelayMs = &delay
	}

	for i := range c.Rooms {
		if c.Rooms[i].Players == 0 {
			c.Rooms[i].Players = defaultSeats
		}
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.BotDelayMs != nil && *c.Server.BotDelayMs < 0 {
		return fmt.Errorf("bot_delay_ms must not be negative")
	}

	seen := make(map[string]bool)
	for _, room := range c.Rooms {
		if room.Name == "" {
			return fmt.Errorf("room name must not be empty")
		}
		if seen[room.Name] {
			return fmt.Errorf("room %s: defined more than once", room.Name)
		}
		seen[room.Name] = true

		if room.Players < game.MinPlayers || room.Players > game.MaxPlayers {
			return fmt.Errorf("room %s: players must be between %d and %d", room.Name, game.MinPlayers, game.MaxPlayers)
		}
		if room.Bots < 0 || room.Bots >= room.Players {
			return fmt.Errorf("room %s: bots must leave at least one seat for a person", room.Name)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// BotDelay returns the configured pause before automated moves
func (c *ServerConfig) BotDelay() time.Duration {
	if c.Server.BotDelayMs == nil {
		return game.DefaultBotDelay
	}
	return time.Duration(*c.Server.BotDelayMs) * time.Millisecond
}

// GetRoomByName returns a room configuration by name
func (c *ServerConfig) GetRoomByName(name string) *RoomConfig {
	for i := range c.Rooms {
		if c.Rooms[i].Name == name {
			return &c.Rooms[i]
		}
	}
	return nil
}
