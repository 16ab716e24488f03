package cliconfig

import "os"

// ApplyEnvConfig applies configuration from DBUILDER_* environment
// variables, respecting flags that have been explicitly set. Returns
// an error when a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("mongo-uri", os.Getenv("DBUILDER_MONGO_URI"), &cfg.MongoURI)
	s.setString("database", os.Getenv("DBUILDER_DATABASE"), &cfg.Database)
	s.setString("collection", os.Getenv("DBUILDER_COLLECTION"), &cfg.Collection)
	s.setString("save-to", os.Getenv("DBUILDER_SAVE_TO"), &cfg.SaveTo)
	s.setString("targets-file", os.Getenv("DBUILDER_TARGETS_FILE"), &cfg.TargetsFile)
	s.setString("log-level", os.Getenv("DBUILDER_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("chunk-size", os.Getenv("DBUILDER_CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}
	if err := s.setIntFromString("print-step", os.Getenv("DBUILDER_PRINT_STEP"), &cfg.PrintStep); err != nil {
		return err
	}
	if err := s.setIntFromString("save-step", os.Getenv("DBUILDER_SAVE_STEP"), &cfg.SaveStep); err != nil {
		return err
	}
	if err := s.setIntFromString("max-size", os.Getenv("DBUILDER_MAX_SIZE"), &cfg.MaxSize); err != nil {
		return err
	}

	s.setBoolFromString("add-if-empty", os.Getenv("DBUILDER_ADD_IF_EMPTY"), &cfg.AddIfEmpty)
	s.setBoolFromString("clear", os.Getenv("DBUILDER_CLEAR"), &cfg.Clear)
	s.setBoolFromString("update-members", os.Getenv("DBUILDER_UPDATE_MEMBERS"), &cfg.UpdateMembers)

	return nil
}
