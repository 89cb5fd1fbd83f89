package config

// Overrides holds command line values that take priority over the file.
// Zero values leave the configuration untouched.
type Overrides struct {
	Debug    bool
	LogLevel string
	LogFile  string
	Workers  int
	External bool
	NoNative bool
}

// apply applies CLI flag overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.File = o.LogFile
	}
	if o.Workers > 0 {
		cfg.Conversion.Workers = o.Workers
	}
	if o.External {
		cfg.Tessellation.External.Enabled = true
	}
	if o.NoNative {
		cfg.Tessellation.Native = false
	}
}
