package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ProteinUniverseAtlas/dbuilder/internal/cliconfig"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/dbuilder"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/log"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/storage"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/uniref"
)

const helpDescription = `
Extract per-cluster annotations from bulk UniRef release dumps.

Entries are streamed one at a time, so multi-gigabyte compressed dumps
are processed in constant memory. Records land either in memory or in
a MongoDB collection, with periodic checkpoints so interrupted runs
can resume and partial results stay queryable.
`

var exampleUsage = strings.TrimSpace(`
  dbuilder --input uniref50.xml.gz --save-to checkpoints/uniref50
  dbuilder --input uniref50.xml.gz --mongo-uri mongodb://localhost:27017 --collection UniRef50 --update-members
  dbuilder --config $HOME/.dbuilder/config.toml --max-size 1000
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "dbuilder",
		Short:   "Extract UniRef cluster annotations into a queryable store",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cfgFile)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.dbuilder/config.toml)")
	root.Flags().StringSliceVar(&cfg.Inputs, "input", nil, "UniRef dump file(s), .gz aware; repeatable")
	root.Flags().StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "MongoDB connection URI (empty: in-memory backend)")
	root.Flags().StringVar(&cfg.Database, "database", cfg.Database, "database name")
	root.Flags().StringVar(&cfg.Collection, "collection", cfg.Collection, "output collection name, e.g. UniRef50")
	root.Flags().StringVar(&cfg.UniProtCollection, "uniprot-collection", cfg.UniProtCollection, "UniProt collection for enrichment")
	root.Flags().StringVar(&cfg.UniParcCollection, "uniparc-collection", cfg.UniParcCollection, "UniParc collection for enrichment")
	root.Flags().StringVar(&cfg.AlphaFoldCollection, "alphafold-collection", cfg.AlphaFoldCollection, "AlphaFold collection for enrichment")
	root.Flags().IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "bulk insert batch size")
	root.Flags().IntVar(&cfg.PrintStep, "print-step", cfg.PrintStep, "progress report cadence in entries")
	root.Flags().IntVar(&cfg.SaveStep, "save-step", cfg.SaveStep, "checkpoint cadence in entries")
	root.Flags().StringVar(&cfg.SaveTo, "save-to", cfg.SaveTo, "checkpoint base path (empty: no checkpoints)")
	root.Flags().IntVar(&cfg.MaxSize, "max-size", cfg.MaxSize, "stop after storing this many records (0: all)")
	root.Flags().StringSliceVar(&cfg.Targets, "target", nil, "restrict to these accession codes; repeatable")
	root.Flags().StringVar(&cfg.TargetsFile, "targets-file", cfg.TargetsFile, "file with one target accession per line")
	root.Flags().BoolVar(&cfg.AddIfEmpty, "add-if-empty", cfg.AddIfEmpty, "store records with no extracted fields")
	root.Flags().BoolVar(&cfg.Clear, "clear", cfg.Clear, "drop previously stored data before the run")
	root.Flags().BoolVar(&cfg.UpdateMembers, "update-members", cfg.UpdateMembers, "tag member collections with cluster darkness metadata")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliconfig.Config, cfgFile string) error {
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.NewZerologAdapter()
	logger.SetLevel(level)

	targets, err := loadTargets(cfg)
	if err != nil {
		return err
	}

	pipeCfg := dbuilder.Config{
		CollectionName: cfg.Collection,
		ChunkSize:      cfg.ChunkSize,
		PrintStep:      cfg.PrintStep,
		SaveStep:       cfg.SaveStep,
		SaveTo:         cfg.SaveTo,
		MaxSize:        cfg.MaxSize,
		Targets:        targets,
		AddIfEmpty:     cfg.AddIfEmpty,
		Clear:          cfg.Clear,
		UpdateMembers:  cfg.UpdateMembers,
	}

	opts := []dbuilder.Option{dbuilder.WithLogger(logger)}

	if cfg.MongoURI != "" {
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.Database)
		out := docstore.NewMongo(db.Collection(cfg.Collection))
		if err := out.EnsureIndex(ctx, "ACC"); err != nil {
			return fmt.Errorf("index %s: %w", cfg.Collection, err)
		}
		opts = append(opts,
			dbuilder.WithSink(storage.NewCollectionSink(out, cfg.ChunkSize, cfg.SaveTo)),
			dbuilder.WithCollections(
				docstore.NewMongo(db.Collection(cfg.UniProtCollection)),
				docstore.NewMongo(db.Collection(cfg.UniParcCollection)),
				docstore.NewMongo(db.Collection(cfg.AlphaFoldCollection)),
			),
		)
	}

	ext, err := dbuilder.New(pipeCfg, opts...)
	if err != nil {
		return err
	}
	ext.Register(uniref.MemberEntriesExtractor{})
	ext.Register(uniref.CrossRefExtractor{})

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		watcher := cliconfig.NewWatcher(cfgFile, func(fc cliconfig.FileConfig) {
			ext.Tunables().SetPrintStep(fc.PrintStep)
			ext.Tunables().SetSaveStep(fc.SaveStep)
			if fc.LogLevel != "" {
				if lvl, err := zerolog.ParseLevel(fc.LogLevel); err == nil {
					logger.SetLevel(lvl)
				}
			}
		}, logger)
		go func() {
			if werr := watcher.Run(ctx); werr != nil {
				logger.Warn("config watcher stopped", log.Err(werr))
			}
		}()
	}

	res, err := ext.Extract(ctx, cfg.Inputs...)
	if err != nil {
		return err
	}
	logger.Info("extraction finished",
		log.Str("state", res.State.String()),
		log.Int("scanned", res.Scanned),
		log.Int("stored", res.Stored),
	)
	return nil
}

// loadTargets merges inline targets with the targets file, one
// accession per line, blank lines and #-comments skipped.
func loadTargets(cfg cliconfig.Config) ([]string, error) {
	targets := append([]string(nil), cfg.Targets...)
	if cfg.TargetsFile == "" {
		return targets, nil
	}
	f, err := os.Open(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("targets file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("targets file: %w", err)
	}
	return targets, nil
}
