package schedule

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/maestrohq/maestro/pkg/models"
)

// rosterFile represents the workers.yaml roster file structure.
type rosterFile struct {
	Workers []struct {
		ID           string   `yaml:"id"`
		Name         string   `yaml:"name"`
		Capabilities []string `yaml:"capabilities"`
		Performance  float64  `yaml:"performance"`
	} `yaml:"workers"`
}

// LoadRoster reads a YAML worker roster. Every worker starts idle.
func LoadRoster(path string) ([]*models.Worker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(file.Workers) == 0 {
		return nil, fmt.Errorf("roster %s declares no workers", path)
	}

	workers := make([]*models.Worker, 0, len(file.Workers))
	for i, w := range file.Workers {
		if w.ID == "" {
			return nil, fmt.Errorf("roster worker %d has no id", i)
		}
		workers = append(workers, &models.Worker{
			ID:               w.ID,
			Name:             w.Name,
			Capabilities:     append([]string(nil), w.Capabilities...),
			Status:           models.WorkerIdle,
			PerformanceScore: w.Performance,
		})
	}
	return workers, nil
}

// DefaultRoster returns the built-in static roster used when no roster
// file is configured.
func DefaultRoster() []*models.Worker {
	return []*models.Worker{
		{
			ID:               "worker-analyst",
			Name:             "Analyst",
			Capabilities:     []string{"analyze", "research", "data", "report"},
			Status:           models.WorkerIdle,
			PerformanceScore: 0.85,
		},
		{
			ID:               "worker-builder",
			Name:             "Builder",
			Capabilities:     []string{"build", "code", "implement", "deploy"},
			Status:           models.WorkerIdle,
			PerformanceScore: 0.8,
		},
		{
			ID:               "worker-tester",
			Name:             "Tester",
			Capabilities:     []string{"test", "tests", "testing", "verify"},
			Status:           models.WorkerIdle,
			PerformanceScore: 0.75,
		},
		{
			ID:               "worker-designer",
			Name:             "Designer",
			Capabilities:     []string{"design", "ui", "ux", "wireframes"},
			Status:           models.WorkerIdle,
			PerformanceScore: 0.7,
		},
	}
}
