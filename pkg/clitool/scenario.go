package clitool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a synthetic HashDict workload for `persistctl
// bench`: how many entries to generate and what mix of operations to
// run against them. Loaded from a YAML file using gopkg.in/yaml.v3, the
// same library the teacher uses for its own YAML-shaped config.
type Scenario struct {
	Seed        int64   `yaml:"seed"`
	EntryCount  int     `yaml:"entry_count"`
	AssocRatio  float64 `yaml:"assoc_ratio"`
	DissocRatio float64 `yaml:"dissoc_ratio"`
	GetRatio    float64 `yaml:"get_ratio"`
	Operations  int     `yaml:"operations"`
}

// LoadScenario reads and parses a scenario file. A non-positive entry
// count defaults to 10,000 and a non-positive operation count to the
// entry count; when all three ratios are zero the mix defaults to 0.5
// assoc, 0.4 get, 0.1 dissoc. Ratios that are given are used as is.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario yaml: %w", err)
	}
	if s.EntryCount <= 0 {
		s.EntryCount = 10_000
	}
	if s.Operations <= 0 {
		s.Operations = s.EntryCount
	}
	if s.AssocRatio == 0 && s.DissocRatio == 0 && s.GetRatio == 0 {
		s.AssocRatio, s.GetRatio, s.DissocRatio = 0.5, 0.4, 0.1
	}
	return &s, nil
}
