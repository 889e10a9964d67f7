package config

import (
	"errors"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

func (config ServerConfig) bindEnvironmentVariables() error {
	err := viper.BindEnv("server.port", "PORT")
	if err != nil {
		return err
	}
	return viper.BindEnv("server.metrics_port", "METRICS_PORT")
}

type DBConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
}

func (config DBConfig) validate() error {
	if config.ConnectionString == "" {
		return errors.New("missing variable: db connection string")
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING")
}
