package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/table"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   *GameSettings  `hcl:"game,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings applies to every table the server creates, including ones
// created on demand by clients.
type GameSettings struct {
	SmallBlind    int   `hcl:"small_blind,optional"`
	BigBlind      int   `hcl:"big_blind,optional"`
	StartingChips int   `hcl:"starting_chips,optional"`
	MaxSeats      int   `hcl:"max_seats,optional"`
	TurnSeconds   int   `hcl:"turn_seconds,optional"`
	TickMillis    int   `hcl:"tick_ms,optional"`
	RevealMillis  int   `hcl:"reveal_ms,optional"`
	PauseMillis   int   `hcl:"pause_ms,optional"`
	AutoRebuy     *bool `hcl:"auto_rebuy,optional"`
}

// TableConfig defines a table created when the server starts
type TableConfig struct {
	Code string `hcl:"code,label"`
	Name string `hcl:"name,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{Code: "main", Name: "Main"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadServerConfig loads server configuration from an HCL file. A missing file
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

// applyDefaults fills every omitted value.
func (c *ServerConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	g := c.Game
	def := game.DefaultConfig()
	pace := table.DefaultSettings()
	if g.SmallBlind == 0 {
		g.SmallBlind = def.SmallBlind
	}
	if g.BigBlind == 0 {
		g.BigBlind = def.BigBlind
	}
	if g.StartingChips == 0 {
		g.StartingChips = def.StartingChips
	}
	if g.MaxSeats == 0 {
		g.MaxSeats = def.MaxSeats
	}
	if g.TurnSeconds == 0 {
		g.TurnSeconds = int(def.TurnTime / time.Second)
	}
	if g.TickMillis == 0 {
		g.TickMillis = int(pace.TickInterval / time.Millisecond)
	}
	if g.RevealMillis == 0 {
		g.RevealMillis = int(pace.RevealInterval / time.Millisecond)
	}
	if g.PauseMillis == 0 {
		g.PauseMillis = int(pace.HandPause / time.Millisecond)
	}
	if g.AutoRebuy == nil {
		g.AutoRebuy = &def.AutoRebuy
	}

	for i := range c.Tables {
		if c.Tables[i].Name == "" {
			c.Tables[i].Name = c.Tables[i].Code
		}
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Server.LogLevel)
	}

	g := c.Game
	if g == nil {
		return fmt.Errorf("game settings missing")
	}
	if g.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if g.BigBlind <= g.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if g.StartingChips < g.BigBlind {
		return fmt.Errorf("starting chips must cover the big blind")
	}
	if g.MaxSeats < 2 || g.MaxSeats > 10 {
		return fmt.Errorf("max seats must be between 2 and 10")
	}
	if g.TurnSeconds <= 0 {
		return fmt.Errorf("turn seconds must be positive")
	}
	if g.TickMillis <= 0 || g.RevealMillis <= 0 || g.PauseMillis <= 0 {
		return fmt.Errorf("tick, reveal and pause intervals must be positive")
	}
	if time.Duration(g.TickMillis)*time.Millisecond > time.Duration(g.TurnSeconds)*time.Second {
		return fmt.Errorf("tick interval exceeds the turn time")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if t.Code == "" {
			return fmt.Errorf("table code must not be empty")
		}
		if seen[t.Code] {
			return fmt.Errorf("table %s: defined twice", t.Code)
		}
		seen[t.Code] = true
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig returns the rules every table is created with.
func (c *ServerConfig) GameConfig() game.Config {
	g := c.Game
	return game.Config{
		MaxSeats:      g.MaxSeats,
		SmallBlind:    g.SmallBlind,
		BigBlind:      g.BigBlind,
		StartingChips: g.StartingChips,
		TurnTime:      time.Duration(g.TurnSeconds) * time.Second,
		AutoRebuy:     g.AutoRebuy != nil && *g.AutoRebuy,
	}
}

// Settings returns the pacing every table is driven with.
func (c *ServerConfig) Settings() table.Settings {
	g := c.Game
	return table.Settings{
		TickInterval:   time.Duration(g.TickMillis) * time.Millisecond,
		RevealInterval: time.Duration(g.RevealMillis) * time.Millisecond,
		HandPause:      time.Duration(g.PauseMillis) * time.Millisecond,
	}
}
