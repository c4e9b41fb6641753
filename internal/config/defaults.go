package config

// Transports supported by the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: "localhost",
			Port: 3001,
		},
		Server: ServerConfig{
			Name:      "firstrade-mcp",
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      4243,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
