package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/numlab/lpmc/api/v1alpha1"
)

// LoadProblem reads and validates a YAML problem file. An empty path returns the built-in problem.
func LoadProblem(path string) (*v1alpha1.ProductionProblem, error) {
	if path == "" {
		return v1alpha1.DefaultProductionProblem(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}
	problem, err := ParseProblem(data)
	if err != nil {
		return nil, fmt.Errorf("problem file %q: %w", path, err)
	}
	return problem, nil
}

// ParseProblem decodes and validates a YAML problem definition. Unknown fields are rejected.
func ParseProblem(data []byte) (*v1alpha1.ProductionProblem, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var problem v1alpha1.ProductionProblem
	if err := dec.Decode(&problem); err != nil {
		return nil, fmt.Errorf("decoding problem: %w", err)
	}
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return &problem, nil
}
