// Package config provides Viper-based configuration loading for the rpgplay binary.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output. Empty means stderr, which the terminal UI
	// draws over.
	File string `mapstructure:"file"`
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// StorageConfig selects where save slots are kept.
type StorageConfig struct {
	// Backend is one of "memory", "postgres", or "sqlite".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
	// AutosaveInterval is how often the current slot is written. Zero disables autosave.
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	// Slot is the save slot loaded at startup and written by autosave.
	Slot string `mapstructure:"slot"`
}

// BaseStats mirrors the starting stat block.
type BaseStats struct {
	MaxHealth             int `mapstructure:"max_health"`
	MaxMana               int `mapstructure:"max_mana"`
	Level                 int `mapstructure:"level"`
	Experience            int `mapstructure:"experience"`
	ExperienceToNextLevel int `mapstructure:"experience_to_next_level"`
	Attack                int `mapstructure:"attack"`
	Defense               int `mapstructure:"defense"`
	Gold                  int `mapstructure:"gold"`
}

// Point is a field coordinate.
type Point struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// PlayerConfig describes the character created at startup.
type PlayerConfig struct {
	Name          string    `mapstructure:"name"`
	InventorySize int       `mapstructure:"inventory_size"`
	Base          BaseStats `mapstructure:"base"`
	Spawn         Point     `mapstructure:"spawn"`
}

// ContentConfig locates the content directories.
type ContentConfig struct {
	ItemsDir   string `mapstructure:"items_dir"`
	NPCsDir    string `mapstructure:"npcs_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
	FieldFile  string `mapstructure:"field_file"`
	// ScriptInstructionLimit caps opcodes per hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// UIConfig holds terminal front end settings.
type UIConfig struct {
	// TickInterval drives dialogue typing and NPC wandering.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Seed seeds NPC wandering. Zero picks a time-based seed.
	Seed int64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Player   PlayerConfig   `mapstructure:"player"`
	Content  ContentConfig  `mapstructure:"content"`
	UI       UIConfig       `mapstructure:"ui"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validatePlayer(c.Player); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.UI.TickInterval < 0 {
		errs = append(errs, "ui.tick_interval must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Backend {
	case BackendMemory, BackendPostgres:
	case BackendSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			errs = append(errs, "storage.sqlite_path must not be empty for the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.backend must be one of [memory, postgres, sqlite], got %q", s.Backend))
	}
	if s.AutosaveInterval < 0 {
		errs = append(errs, "storage.autosave_interval must not be negative")
	}
	if s.Slot == "" {
		errs = append(errs, "storage.slot must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "player.name must not be empty")
	}
	if p.InventorySize < 1 {
		errs = append(errs, fmt.Sprintf("player.inventory_size must be >= 1, got %d", p.InventorySize))
	}
	b := p.Base
	if b.MaxHealth < 1 {
		errs = append(errs, fmt.Sprintf("player.base.max_health must be >= 1, got %d", b.MaxHealth))
	}
	if b.MaxMana < 0 {
		errs = append(errs, fmt.Sprintf("player.base.max_mana must be >= 0, got %d", b.MaxMana))
	}
	if b.Level < 1 {
		errs = append(errs, fmt.Sprintf("player.base.level must be >= 1, got %d", b.Level))
	}
	if b.ExperienceToNextLevel < 1 {
		errs = append(errs, fmt.Sprintf("player.base.experience_to_next_level must be >= 1, got %d", b.ExperienceToNextLevel))
	}
	if b.Experience < 0 || b.Gold < 0 || b.Attack < 0 || b.Defense < 0 {
		errs = append(errs, "player.base experience, gold, attack, and defense must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ItemsDir == "" {
		return errors.New("content.items_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with RPG_ prefix
	v.SetEnvPrefix("RPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "rpgplay.log")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rpg")
	v.SetDefault("database.password", "rpg")
	v.SetDefault("database.name", "rpg")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.sqlite_path", "rpgplay.db")
	v.SetDefault("storage.autosave_interval", "1m")
	v.SetDefault("storage.slot", "default")

	v.SetDefault("player.name", "Hero")
	v.SetDefault("player.inventory_size", 20)
	v.SetDefault("player.base.max_health", 100)
	v.SetDefault("player.base.max_mana", 50)
	v.SetDefault("player.base.level", 1)
	v.SetDefault("player.base.experience", 0)
	v.SetDefault("player.base.experience_to_next_level", 100)
	v.SetDefault("player.base.attack", 10)
	v.SetDefault("player.base.defense", 5)
	v.SetDefault("player.base.gold", 0)
	v.SetDefault("player.spawn.x", 0)
	v.SetDefault("player.spawn.y", 0)

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.npcs_dir", "content/npcs")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.field_file", "content/world/meadow.yaml")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("ui.tick_interval", "50ms")
	v.SetDefault("ui.seed", 0)
}
