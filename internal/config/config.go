// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/anahmed/career-forecast/pkg/constants"
)

// Configuration holds all configuration for career-forecast.
type Configuration struct {
	Database Database
	Server   Server
	Engine   Engine
	Logging  Logging
	Output   Output
}

// Database points at the sqlite reference database and optional seed file.
type Database struct {
	Path     string
	SeedFile string
}

// Server holds the HTTP listener settings.
type Server struct {
	Address string
}

// Engine holds the projection defaults applied when a query leaves them out.
type Engine struct {
	HomeCountry          string
	BaselineSalaryK      float64
	BaselineGrowth       float64
	FamilyTransitionYear int
	Lifestyle            string
}

// Logging controls the zap logger.
type Logging struct {
	Level      string
	Format     string
	OutputFile string
}

// Output selects the CLI rendering format.
type Output struct {
	Format string
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Missing keys fall back to the documented defaults;
// environment variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	v.SetDefault("database.path", constants.DefaultDatabaseFile)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("engine.homecountry", constants.DefaultHomeCountry)
	v.SetDefault("engine.baselinesalaryk", constants.DefaultBaselineSalaryK)
	v.SetDefault("engine.baselinegrowth", constants.DefaultBaselineGrowth)
	v.SetDefault("engine.familytransitionyear", constants.DefaultFamilyYear)
	v.SetDefault("engine.lifestyle", "frugal")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}
