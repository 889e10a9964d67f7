package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Hh     HhConfig     `mapstructure:"hh"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Logger LoggerConfig `mapstructure:"logger"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.metrics_port", 8080)
	viper.SetDefault("auth.access_token_expire_minutes", 30)
	viper.SetDefault("auth.refresh_token_expire_minutes", 300)
	viper.SetDefault("hh.api_url", "https://api.hh.ru/vacancies/")
	viper.SetDefault("sync.refresh_cron", "0 */4 * * *")
	viper.SetDefault("sync.staleness_cron", "0 0 * * *")
	viper.SetDefault("sync.staleness_days", 14)
}

func bindEnvironmentVariables() error {
	var errs []error

	server, db, auth := ServerConfig{}, DBConfig{}, AuthConfig{}
	hh, sync, logger := HhConfig{}, SyncConfig{}, LoggerConfig{}

	if err := server.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("ServerConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := auth.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("AuthConfig: %w", err))
	}

	if err := hh.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("HhConfig: %w", err))
	}

	if err := sync.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("SyncConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Auth.validate(); err != nil {
		errs = append(errs, fmt.Errorf("AuthConfig: %w", err))
	}

	if err := config.Sync.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SyncConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
