package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/tadashuai/bvh2d"
)

// RunConfig is the YAML document `bvhbench run --config` loads. Tree
// carries straight into bvh.Config; the rest tune the workload the
// command drives against it.
type RunConfig struct {
	Tree bvh.Config `yaml:"tree"`

	Iterations          int `yaml:"iterations"`
	SampleEvery         int `yaml:"sampleEvery"`
	RebalanceIterations int `yaml:"rebalanceIterations"`
	Seed                int64 `yaml:"seed"`
}

// DefaultRunConfig mirrors bvh.DefaultConfig with workload defaults
// sized for a quick interactive run.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Tree:                bvh.DefaultConfig(),
		Iterations:          2000,
		SampleEvery:         100,
		RebalanceIterations: 64,
		Seed:                1,
	}
}

func loadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %q", path)
	}
	return cfg, nil
}

// Script is the YAML document `bvhbench validate --script` loads: a
// fixed, ordered sequence of operations against indexed proxies.
type Script struct {
	Tree       bvh.Config  `yaml:"tree"`
	Operations []Operation `yaml:"operations"`
}

// Operation is one step of a Script. Kind is "create", "move", or
// "destroy"; Index names the proxy within this script (assigned in
// creation order), not the tree's internal proxy id.
type Operation struct {
	Kind         string     `yaml:"kind"`
	Index        int        `yaml:"index"`
	Box          [4]float64 `yaml:"box"`
	Displacement [2]float64 `yaml:"displacement"`
}

func loadScript(path string) (Script, error) {
	var script Script
	data, err := os.ReadFile(path)
	if err != nil {
		return script, errors.Wrapf(err, "reading script %q", path)
	}
	if err := yaml.Unmarshal(data, &script); err != nil {
		return script, errors.Wrapf(err, "parsing script %q", path)
	}
	return script, nil
}
