package main

import (
	"fmt"
	"os"

	"github.com/procmesh/procmesh/internal/agents/billing"
	"github.com/procmesh/procmesh/internal/config"
	"github.com/procmesh/procmesh/internal/engine"
	"github.com/procmesh/procmesh/internal/hierarchy"
	"github.com/procmesh/procmesh/internal/orchestrator"
	"github.com/procmesh/procmesh/internal/registry"
	"github.com/procmesh/procmesh/internal/state"
)

// buildEngine loads configuration, registers the built-in leaf packs,
// composes the process tree, and wires the engine. Registration happens
// here, single-threaded, before any orchestration: the registry is
// read-only from then on.
func buildEngine() (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := orchestrator.NewDebugLogger(cfg.Logging.DebugLog)
	if err != nil {
		return nil, nil, fmt.Errorf("create debug logger: %w", err)
	}

	reg := registry.New()
	orch := orchestrator.New(reg, orchestrator.Options{
		ChildTimeout: cfg.Engine.ChildTimeout,
		NodeDeadline: cfg.Engine.NodeDeadline,
		FailFast:     cfg.Engine.FailFast,
		Logger:       logger,
	})

	if err := billing.RegisterAll(reg); err != nil {
		return nil, nil, err
	}

	if _, statErr := os.Stat(cfg.Definitions.Path); statErr == nil {
		defs, err := hierarchy.Load(cfg.Definitions.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load process tree: %w", err)
		}
		if err := hierarchy.Compose(defs, orch); err != nil {
			return nil, nil, fmt.Errorf("compose process tree: %w", err)
		}
	}

	var history *state.DB
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, nil, fmt.Errorf("get working directory: %w", err)
			}
			path = state.DefaultDBPath(cwd)
		}
		history, err = state.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open history database: %w", err)
		}
		if err := history.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("migrate history database: %w", err)
		}
	}

	return engine.New(reg, orch, history), cfg, nil
}
