package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/maestrohq/maestro/internal/conductor"
	"github.com/maestrohq/maestro/internal/config"
	"github.com/maestrohq/maestro/internal/schedule"
	"github.com/maestrohq/maestro/internal/store"
	"github.com/maestrohq/maestro/internal/thought"
	"github.com/maestrohq/maestro/internal/vectorspace"
	"github.com/maestrohq/maestro/pkg/models"
)

var flagConfigPath string

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFromPath(flagConfigPath)
	}
	return config.Load()
}

// buildConductor assembles a Conductor from configuration. The returned
// closer releases the store and debug log; callers defer it.
func buildConductor(cfg *config.Config) (*conductor.Conductor, func(), error) {
	space := vectorspace.New(vectorspace.DefaultConfig())

	brainstormer, err := buildBrainstormer(cfg)
	if err != nil {
		return nil, nil, err
	}

	workers, err := loadWorkers(cfg)
	if err != nil {
		return nil, nil, err
	}
	state, err := schedule.NewState(workers)
	if err != nil {
		return nil, nil, fmt.Errorf("worker state: %w", err)
	}
	scheduler := schedule.NewScheduler(state, nil)

	var st *store.Store
	if !cfg.Store.Disabled {
		path := cfg.Store.Path
		if path == "" {
			path = store.DefaultDBPath()
		}
		st, err = store.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
	}

	logger, err := conductor.NewDebugLogger(cfg.Log.DebugPath)
	if err != nil {
		logger = conductor.NopLogger()
	}

	ccfg := conductor.Config{
		Space:             space,
		Brainstormer:      brainstormer,
		Scheduler:         scheduler,
		ClusterEvery:      cfg.Cluster.Every,
		Eps:               cfg.Cluster.Eps,
		MinSamples:        cfg.Cluster.MinSamples,
		MaxDepth:          cfg.Planner.MaxDepth,
		Branching:         cfg.Brainstorm.Branching,
		BrainstormTimeout: cfg.Brainstorm.Timeout,
		Logger:            logger,
	}
	if st != nil {
		ccfg.Store = st
	}

	c, err := conductor.New(ccfg)
	if err != nil {
		if st != nil {
			st.Close()
		}
		logger.Close()
		return nil, nil, err
	}

	closer := func() {
		if st != nil {
			st.Close()
		}
		logger.Close()
	}
	return c, closer, nil
}

// buildBrainstormer picks the candidate generator from config.
func buildBrainstormer(cfg *config.Config) (thought.Brainstormer, error) {
	switch cfg.Brainstorm.Mode {
	case "", "template":
		return thought.NewTemplateBrainstormer(), nil
	case "claude":
		apiKey := ""
		if !cfg.Anthropic.UseBedrock {
			key, err := config.GetAPIKey(cfg)
			if err != nil {
				return nil, fmt.Errorf("brainstorm mode 'claude': %w", err)
			}
			if err := config.ValidateAPIKey(key); err != nil {
				return nil, fmt.Errorf("brainstorm mode 'claude': %w", err)
			}
			apiKey = key
		}
		return thought.NewClaudeBrainstormer(thought.ClaudeConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        apiKey,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
			MaxCandidates: cfg.Brainstorm.Branching,
		})
	default:
		return nil, fmt.Errorf("unknown brainstorm mode %q (want template or claude)", cfg.Brainstorm.Mode)
	}
}

// loadWorkers reads the configured roster, falling back to the built-in
// pool when none is configured.
func loadWorkers(cfg *config.Config) ([]*models.Worker, error) {
	if cfg.Roster.Path == "" {
		return schedule.DefaultRoster(), nil
	}
	workers, err := schedule.LoadRoster(cfg.Roster.Path)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return workers, nil
}

// openStore opens the persistence layer for read-only style commands.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.Disabled {
		return nil, fmt.Errorf("persistence is disabled in config")
	}
	path := cfg.Store.Path
	if path == "" {
		path = store.DefaultDBPath()
	}
	return store.Open(path)
}
