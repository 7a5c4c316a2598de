package compute

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known function names. The registry maps them to paths; deployments
// override paths via the YAML file without a rebuild.
const (
	FnScenarioProjections   = "scenario-projections"
	FnScenarioStressTest    = "scenario-stress-test"
	FnRecommendationCompute = "recommendation-compute"
	FnScenarioBranch        = "scenario-branch"
)

type Registry struct {
	endpoints map[string]string
}

type registryFile struct {
	Functions map[string]string `yaml:"functions"`
}

func defaultEndpoints() map[string]string {
	return map[string]string{
		FnScenarioProjections:   "/functions/scenario-projections",
		FnScenarioStressTest:    "/functions/scenario-stress-test",
		FnRecommendationCompute: "/functions/recommendation-compute",
		FnScenarioBranch:        "/functions/scenario-branch",
	}
}

// LoadRegistry reads the function registry from the YAML file at path,
// merging over the defaults. An empty path yields the defaults.
func LoadRegistry(path string) (*Registry, error) {
	endpoints := defaultEndpoints()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read compute registry: %w", err)
		}
		var file registryFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse compute registry: %w", err)
		}
		for name, fnPath := range file.Functions {
			name = strings.TrimSpace(name)
			fnPath = strings.TrimSpace(fnPath)
			if name == "" || fnPath == "" {
				continue
			}
			if !strings.HasPrefix(fnPath, "/") {
				fnPath = "/" + fnPath
			}
			endpoints[name] = fnPath
		}
	}
	return &Registry{endpoints: endpoints}, nil
}

func (r *Registry) Lookup(name string) (string, bool) {
	path, ok := r.endpoints[name]
	return path, ok
}
