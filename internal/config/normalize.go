// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTimeoutMs  = 5000
	DefaultIntervalMs = 1000

	NameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for di := range cfg.CXL.Devices {
		d := &cfg.CXL.Devices[di]

		// ASCII already validated; truncate to the status block limit.
		if len(d.Name) > NameMaxChars {
			d.Name = d.Name[:NameMaxChars]
		}
	}

	if e := cfg.CXL.Export; e != nil {
		if e.TimeoutMs == 0 {
			e.TimeoutMs = DefaultTimeoutMs
		}
		if e.IntervalMs == 0 {
			e.IntervalMs = DefaultIntervalMs
		}
	}
}
