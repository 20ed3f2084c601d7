package scrape

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan describes a scrape run: how many problems to draw per tier, how
// long to pause between detail requests, and where to write the result.
type Plan struct {
	Easy         int    `yaml:"easy"`
	Medium       int    `yaml:"medium"`
	Hard         int    `yaml:"hard"`
	DelaySeconds int    `yaml:"delay_seconds"`
	Output       string `yaml:"output"`
}

// DefaultPlan is the standard study-set draw: two easy, two medium, one
// hard, one second between requests.
func DefaultPlan() Plan {
	return Plan{
		Easy:         2,
		Medium:       2,
		Hard:         1,
		DelaySeconds: 1,
		Output:       "questions.json",
	}
}

// LoadPlan reads a plan from a YAML file. Fields left out keep their
// defaults.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("reading plan: %w", err)
	}

	plan := DefaultPlan()
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("parsing plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Validate rejects plans that cannot produce a dataset.
func (p Plan) Validate() error {
	if p.Easy < 0 || p.Medium < 0 || p.Hard < 0 {
		return fmt.Errorf("plan counts must be non-negative")
	}
	if p.Easy+p.Medium+p.Hard == 0 {
		return fmt.Errorf("plan selects no problems")
	}
	if p.DelaySeconds < 0 {
		return fmt.Errorf("delay_seconds must be non-negative")
	}
	if p.Output == "" {
		return fmt.Errorf("output path is empty")
	}
	return nil
}

// Delay returns the pause between consecutive detail requests.
func (p Plan) Delay() time.Duration {
	return time.Duration(p.DelaySeconds) * time.Second
}
