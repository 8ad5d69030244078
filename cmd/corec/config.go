package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CompileOptions is the driver's configuration surface, mirroring
// internal/eval_harness's yaml-tagged spec structs in the teacher.
type CompileOptions struct {
	Parallelism int  `yaml:"parallelism"`
	Trace       bool `yaml:"trace"`
}

func defaultCompileOptions() CompileOptions {
	return CompileOptions{Parallelism: 0, Trace: false}
}

// loadCompileOptions reads path as YAML, or returns defaults if path is
// empty.
func loadCompileOptions(path string) (CompileOptions, error) {
	opts := defaultCompileOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}
