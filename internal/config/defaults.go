package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Groups: "groups.csv",
			Matrix: "matrix.csv",
		},
		Building: BuildingConfig{
			Floors:   6,
			Capacity: 500,
		},
		Scoring: ScoringConfig{
			TopLimit: 5,
		},
		Server: ServerConfig{
			Port: 3000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{baseDir: loaded.baseDir}

	result.Data = DataConfig{
		Groups:    pick(loaded.Data.Groups, defaults.Data.Groups),
		Matrix:    pick(loaded.Data.Matrix, defaults.Data.Matrix),
		Employees: pick(loaded.Data.Employees, defaults.Data.Employees),
	}

	result.Building = BuildingConfig{
		Floors:   pick(loaded.Building.Floors, defaults.Building.Floors),
		Capacity: pick(loaded.Building.Capacity, defaults.Building.Capacity),
	}
	if len(loaded.Building.FloorNames) > 0 {
		result.Building.FloorNames = loaded.Building.FloorNames
	} else {
		result.Building.FloorNames = defaults.Building.FloorNames
	}

	result.Scoring.TopLimit = pick(loaded.Scoring.TopLimit, defaults.Scoring.TopLimit)
	result.Server.Port = pick(loaded.Server.Port, defaults.Server.Port)
	result.Log.Level = pick(loaded.Log.Level, defaults.Log.Level)

	return result
}

// pick returns loaded unless it is the zero value.
func pick[T comparable](loaded, fallback T) T {
	var zero T
	if loaded != zero {
		return loaded
	}
	return fallback
}
