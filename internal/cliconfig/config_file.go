package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly field types. Bool
// fields are pointers so an omitted key is distinguishable from an
// explicit false.
type FileConfig struct {
	Inputs []string `toml:"inputs"`

	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`

	Collection          string `toml:"collection"`
	UniProtCollection   string `toml:"uniprot_collection"`
	UniParcCollection   string `toml:"uniparc_collection"`
	AlphaFoldCollection string `toml:"alphafold_collection"`

	ChunkSize int    `toml:"chunk_size"`
	PrintStep int    `toml:"print_step"`
	SaveStep  int    `toml:"save_step"`
	SaveTo    string `toml:"save_to"`
	MaxSize   int    `toml:"max_size"`

	Targets     []string `toml:"targets"`
	TargetsFile string   `toml:"targets_file"`

	AddIfEmpty    *bool `toml:"add_if_empty"`
	Clear         *bool `toml:"clear"`
	UpdateMembers *bool `toml:"update_members"`

	LogLevel string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.dbuilder/config.toml when the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".dbuilder", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to cfg, respecting flags that
// have been explicitly set.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setStrings("input", fc.Inputs, &cfg.Inputs)
	s.setString("mongo-uri", fc.MongoURI, &cfg.MongoURI)
	s.setString("database", fc.Database, &cfg.Database)
	s.setString("collection", fc.Collection, &cfg.Collection)
	s.setString("uniprot-collection", fc.UniProtCollection, &cfg.UniProtCollection)
	s.setString("uniparc-collection", fc.UniParcCollection, &cfg.UniParcCollection)
	s.setString("alphafold-collection", fc.AlphaFoldCollection, &cfg.AlphaFoldCollection)

	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)
	s.setInt("print-step", fc.PrintStep, &cfg.PrintStep)
	s.setInt("save-step", fc.SaveStep, &cfg.SaveStep)
	s.setString("save-to", fc.SaveTo, &cfg.SaveTo)
	s.setInt("max-size", fc.MaxSize, &cfg.MaxSize)

	s.setStrings("target", fc.Targets, &cfg.Targets)
	s.setString("targets-file", fc.TargetsFile, &cfg.TargetsFile)

	s.setBool("add-if-empty", fc.AddIfEmpty, &cfg.AddIfEmpty)
	s.setBool("clear", fc.Clear, &cfg.Clear)
	s.setBool("update-members", fc.UpdateMembers, &cfg.UpdateMembers)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
