package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// Emulator selects the schema of the built-in furniture profile
	// (arcturus, plusemu, comet).
	Emulator string `mapstructure:"emulator" default:"arcturus"`
	// BodyLimitMB caps uploaded CSV bodies.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

const (
	EmulatorArcturus = "arcturus"
	EmulatorPlus     = "plusemu"
	EmulatorComet    = "comet"
)

// IsValidEmulator checks if the configured emulator is valid.
func (c Config) IsValidEmulator() bool {
	switch c.Emulator {
	case EmulatorArcturus, EmulatorPlus, EmulatorComet:
		return true
	default:
		return false
	}
}

// BodyLimit returns the body limit in bytes, defaulting to 64 MiB.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 64 << 20
	}
	return c.BodyLimitMB << 20
}
