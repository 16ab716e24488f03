// Package cliconfig resolves dbuilder's CLI configuration from flags,
// environment variables and a TOML config file, in that order of
// precedence, and watches the file for run-time tunable updates.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// Config holds CLI configuration for dbuilder.
type Config struct {
	Inputs []string

	MongoURI string
	Database string

	Collection          string
	UniProtCollection   string
	UniParcCollection   string
	AlphaFoldCollection string

	ChunkSize int
	PrintStep int
	SaveStep  int
	SaveTo    string
	MaxSize   int

	Targets     []string
	TargetsFile string

	AddIfEmpty    bool
	Clear         bool
	UpdateMembers bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MongoURI:            os.Getenv("DBUILDER_MONGO_URI"),
		Database:            "ProteinUniverse",
		Collection:          "UniRef50",
		UniProtCollection:   "UniProt",
		UniParcCollection:   "UniParc",
		AlphaFoldCollection: "AlphaFold",
		ChunkSize:           1000,
		PrintStep:           100000,
		SaveStep:            100000,
		AddIfEmpty:          true,
		LogLevel:            "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}
	if c.PrintStep <= 0 {
		return fmt.Errorf("print step must be positive")
	}
	if c.SaveStep <= 0 {
		return fmt.Errorf("save step must be positive")
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("max size must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. A value is only applied when the corresponding flag has
// not been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses an int from an environment-variable string.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as
// false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
