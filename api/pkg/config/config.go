package config

import "github.com/kelseyhightower/envconfig"

// Config is this repository's ambient configuration surface, following the
// reference stack's envconfig-tagged struct convention.
type Config struct {
	Engine Engine
	Server Server
}

// Engine configures the parking.Engine the host constructs.
type Engine struct {
	CrossZonePenalty int    `envconfig:"CROSS_ZONE_PENALTY" default:"10" description:"penalty applied to cross-zone allocations"`
	TopologyPath     string `envconfig:"TOPOLOGY_PATH" description:"path to a YAML topology seed file"`
}

// Server configures the optional HTTP adapter.
type Server struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080" description:"address the HTTP adapter listens on"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info" description:"zerolog level: trace, debug, info, warn, error"`
}

// Load reads configuration from the environment, applying the defaults
// above where a variable is unset.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
