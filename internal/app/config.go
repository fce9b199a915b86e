package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath  string // flattened template, .json file or directory
	PolicyPath string // optional exporter policy, .hcl file
	OutPath    string // export document destination; empty means stdout

	LogFormat   string
	LogLevel    string
	WorkerCount int    // overrides the policy file when > 0
	GroupBy     string // overrides the policy file when non-empty
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
