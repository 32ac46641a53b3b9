package resolver

import "time"

// EngineConfig describes the external semantic-resolver binary and its
// request budgets.
type EngineConfig struct {
	Command        string        `yaml:"command" json:"command"`
	Args           []string      `yaml:"args,omitempty" json:"args,omitempty"`
	InitTimeout    time.Duration `yaml:"init_timeout" json:"init_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	LoadTimeout    time.Duration `yaml:"load_timeout" json:"load_timeout"`
	MaxRestarts    int           `yaml:"max_restarts" json:"max_restarts"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Command:        "semres",
		Args:           []string{"--stdio"},
		InitTimeout:    30 * time.Second,
		RequestTimeout: 30 * time.Second,
		LoadTimeout:    5 * time.Minute,
		MaxRestarts:    3,
	}
}
