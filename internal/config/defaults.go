package config

const (
	defaultBind            = "127.0.0.1:8173"
	defaultShutdownTimeout = 5
	defaultEngine          = "chordpro"
	defaultWorkDir         = "~/.local/share/chordserve/work"
	defaultLogDir          = "~/.local/share/chordserve/logs"
	defaultMaxContentBytes = 1 << 20 // 1 MiB
	defaultTimeoutSeconds  = 30
	defaultTimeoutStatus   = 504
	defaultLogFormat       = "auto"
	defaultLogLevel        = "info"
)

// builtinPresets lists the configuration names the ChordPro engine resolves
// internally. Each maps a client-facing preset name to the reference passed
// via --config.
func builtinPresets() map[string]string {
	return map[string]string{
		"guitar":    "guitar",
		"ukulele":   "ukulele",
		"keyboard":  "keyboard",
		"nashville": "nashville",
		"roman":     "roman",
		"modern1":   "modern1",
		"modern2":   "modern2",
		"modern3":   "modern3",
		"dark":      "dark",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:            defaultBind,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Auth: Auth{},
		Convert: Convert{
			Engine:          defaultEngine,
			WorkDir:         defaultWorkDir,
			MaxContentBytes: defaultMaxContentBytes,
			TimeoutSeconds:  defaultTimeoutSeconds,
			TimeoutStatus:   defaultTimeoutStatus,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
	}
}
