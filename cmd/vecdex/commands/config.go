package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	"github.com/goccy/go-yaml"

	"github.com/vecdex/vecdex/engine"
	"github.com/vecdex/vecdex/engine/badgerkv"
	"github.com/vecdex/vecdex/store"
)

// defaultConfigFile is picked up from the working directory when --config is
// not given.
const defaultConfigFile = "vecdex.yaml"

// Config is the YAML file layout:
//
//	engine: sqlite            # or badger
//	path: embeddings.sqlite   # badger: data directory
//	collection: embeddings
//	dimension: 384
type Config struct {
	Engine     string `yaml:"engine"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Dimension  int    `yaml:"dimension"`
}

// resolveConfig merges the config file (when present) with flag overrides.
func resolveConfig() (*Config, error) {
	cfg := &Config{}

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if engineName != "" {
		cfg.Engine = engineName
	}
	if dbPath != "" {
		cfg.Path = dbPath
	}
	if collection != "" {
		cfg.Collection = collection
	}
	if dimension != 0 {
		cfg.Dimension = dimension
	}

	if cfg.Engine == "" {
		cfg.Engine = "sqlite"
	}
	if cfg.Collection == "" {
		return nil, errors.New("collection name is required (-n or config file)")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("a positive dimension is required (-d or config file)")
	}
	if cfg.Path == "" {
		suffix := "sqlite"
		if cfg.Engine == "badger" {
			suffix = "badger"
		}
		cfg.Path = fmt.Sprintf("%s-%d.%s", cfg.Collection, cfg.Dimension, suffix)
	}
	return cfg, nil
}

// openStore builds the store for the resolved configuration.
func openStore() (*store.Store, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}

	opts := []store.Option{}
	switch cfg.Engine {
	case "sqlite":
		opts = append(opts, store.WithPath(cfg.Path))
	case "badger":
		opts = append(opts, store.WithEngine(func() (engine.Engine, error) {
			return badgerkv.Open(badgerkv.Options{Dir: cfg.Path, Collection: cfg.Collection})
		}))
	default:
		return nil, fmt.Errorf("unknown engine %q (want sqlite or badger)", cfg.Engine)
	}

	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, store.WithLogger(logr.FromSlogHandler(handler)))
	}

	return store.New(cfg.Collection, cfg.Dimension, opts...)
}
