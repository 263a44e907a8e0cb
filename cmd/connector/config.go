package main

import (
	"fmt"
	"os"

	"github.com/biodt/argo-cordra-connector/pkg/argo"
	"github.com/biodt/argo-cordra-connector/pkg/connectorserver"
	"github.com/biodt/argo-cordra-connector/pkg/cordra"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/iver-wharf/wharf-core/v2/pkg/config"
)

// Config holds all configurable settings for the connector.
//
// The config is read in the following order:
//
// 1. File: ~/.config/biodt/connector-config.yml
//
// 2. File: ./connector-config.yml
//
// 3. File from environment variable: CONNECTOR_CONFIG
//
// 4. Environment variables, prefixed with CONNECTOR
//
// Each inner struct is represented as a deeper field in the different
// configurations. For YAML they represent deeper nested maps. For environment
// variables they are joined together by underscores.
//
// All environment variables must be uppercased, while YAML files are
// case-insensitive. Keeping camelCasing in YAML config files is recommended
// for consistency.
type Config struct {
	Argo     argo.Config
	Cordra   cordra.Config
	Transfer transfer.Config
	HTTP     connectorserver.Config
}

// DefaultConfig is the hard-coded default values for the connector's configs.
var DefaultConfig = Config{
	Argo: argo.Config{
		URL:       "https://localhost:2746",
		Namespace: "argo",
	},
	Cordra: cordra.Config{
		URL:      "https://localhost:8443",
		Username: "admin",
	},
	Transfer: transfer.Config{
		MaxArtifactSizeBytes: 104857600,
		OnDuplicate:          transfer.DuplicateSkip,
		CleanupOnFailure:     true,
		QueueSize:            16,
		MaxConcurrentRuns:    4,
		Dataset: transfer.DatasetConfig{
			Assemble: true,
			License:  "https://spdx.org/licenses/CC-BY-4.0",
		},
	},
	HTTP: connectorserver.Config{
		BindAddress: "0.0.0.0:8080",
		CORS: connectorserver.CORSConfig{
			AllowAllOrigins: false,
			AllowOrigins:    []string{},
		},
	},
}

func loadConfig() (Config, error) {
	cfgBuilder := config.NewBuilder(DefaultConfig)

	cfgBuilder.AddConfigYAMLFile("~/.config/biodt/connector-config.yml")
	cfgBuilder.AddConfigYAMLFile("connector-config.yml")
	if cfgFile, ok := os.LookupEnv("CONNECTOR_CONFIG"); ok {
		cfgBuilder.AddConfigYAMLFile(cfgFile)
	}
	cfgBuilder.AddEnvironmentVariables("CONNECTOR")

	var cfg Config
	err := cfgBuilder.Unmarshal(&cfg)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if err := cfg.Transfer.OnDuplicate.Validate(); err != nil {
		return fmt.Errorf("transfer.onDuplicate: %w", err)
	}
	return nil
}
