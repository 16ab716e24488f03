package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
	}{
		{
			name: "applies all values",
			fileConfig: FileConfig{
				Inputs:        []string{"a.xml.gz", "b.xml.gz"},
				MongoURI:      "mongodb://localhost:27017",
				Database:      "ProteinUniverse",
				Collection:    "UniRef90",
				ChunkSize:     500,
				PrintStep:     1000,
				SaveStep:      2000,
				SaveTo:        "checkpoints/uniref90",
				MaxSize:       100,
				Targets:       []string{"UniRef90_A"},
				AddIfEmpty:    &falseVal,
				UpdateMembers: &trueVal,
				LogLevel:      "debug",
			},
			changed: map[string]bool{},
			initial: Config{AddIfEmpty: true},
			expected: Config{
				Inputs:        []string{"a.xml.gz", "b.xml.gz"},
				MongoURI:      "mongodb://localhost:27017",
				Database:      "ProteinUniverse",
				Collection:    "UniRef90",
				ChunkSize:     500,
				PrintStep:     1000,
				SaveStep:      2000,
				SaveTo:        "checkpoints/uniref90",
				MaxSize:       100,
				Targets:       []string{"UniRef90_A"},
				AddIfEmpty:    false,
				UpdateMembers: true,
				LogLevel:      "debug",
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Collection: "UniRef90",
				ChunkSize:  500,
			},
			changed: map[string]bool{"collection": true},
			initial: Config{Collection: "UniRef50", ChunkSize: 1000},
			expected: Config{
				Collection: "UniRef50", // flag wins over file
				ChunkSize:  500,
			},
		},
		{
			name: "omitted keys keep defaults",
			fileConfig: FileConfig{
				SaveTo: "checkpoints/uniref50",
			},
			changed: map[string]bool{},
			initial: Config{Collection: "UniRef50", AddIfEmpty: true, ChunkSize: 1000},
			expected: Config{
				Collection: "UniRef50",
				AddIfEmpty: true, // nil pointer leaves the default
				ChunkSize:  1000,
				SaveTo:     "checkpoints/uniref50",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
inputs = ["uniref50.xml.gz"]
mongo_uri = "mongodb://localhost:27017"
collection = "UniRef50"
chunk_size = 500
save_to = "checkpoints/uniref50"
add_if_empty = false
update_members = true
log_level = "debug"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if !reflect.DeepEqual(fc.Inputs, []string{"uniref50.xml.gz"}) {
		t.Errorf("Inputs = %v", fc.Inputs)
	}
	if fc.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q", fc.MongoURI)
	}
	if fc.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", fc.ChunkSize)
	}
	if fc.AddIfEmpty == nil || *fc.AddIfEmpty != false {
		t.Errorf("AddIfEmpty = %v, want explicit false", fc.AddIfEmpty)
	}
	if fc.UpdateMembers == nil || *fc.UpdateMembers != true {
		t.Errorf("UpdateMembers = %v, want true", fc.UpdateMembers)
	}
	if fc.Clear != nil {
		t.Errorf("Clear = %v, want nil for omitted key", fc.Clear)
	}
	if fc.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", fc.LogLevel)
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFileConfig() expected error for missing file")
	}
}

func TestLoadFileConfigInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	if err := os.WriteFile(configPath, []byte("collection = \"x\"\nnot valid toml\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if path != "" && !strings.Contains(path, ".dbuilder") {
		t.Errorf("DefaultConfigPath() = %v, should contain .dbuilder", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "exists.toml")

	if err := os.WriteFile(existing, []byte("x = 1\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if !FileExists(existing) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(filepath.Join(tmpDir, "missing.toml")) {
		t.Error("FileExists() = true for missing file")
	}
}
