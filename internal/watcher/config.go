package watcher

import "time"

type Config struct {
	Enabled          bool          `yaml:"enabled"`
	DebounceWindow   time.Duration `yaml:"debounce_window"`
	MaxBatchSize     int           `yaml:"max_batch_size"`
	ManifestPatterns []string      `yaml:"manifest_patterns"`
	SourcePatterns   []string      `yaml:"source_patterns"`
	IgnorePatterns   []string      `yaml:"ignore_patterns"`
	WatchHidden      bool          `yaml:"watch_hidden"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		DebounceWindow: 300 * time.Millisecond,
		MaxBatchSize:   100,
		ManifestPatterns: []string{
			"**/*.sln",
			"**/*.csproj",
			"**/*.props",
			"**/*.targets",
		},
		SourcePatterns: []string{
			"**/*.cs",
		},
		IgnorePatterns: []string{
			"**/.git/**",
			"**/bin/**",
			"**/obj/**",
			"**/node_modules/**",
			"**/.idea/**",
			"**/*.log",
			"**/packages/**",
		},
		WatchHidden: false,
	}
}
