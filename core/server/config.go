package server

// Config holds configuration for the HTTP status server.
type Config struct {
	// Enabled toggles the status server during runs.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// Leave empty to serve the status endpoint without authentication.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}
