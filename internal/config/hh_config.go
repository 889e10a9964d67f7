package config

import "github.com/spf13/viper"

type HhConfig struct {
	APIURL               string  `mapstructure:"api_url"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

func (config HhConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("hh.api_url", "HH_API_URL")
	if err != nil {
		return err
	}

	return viper.BindEnv("hh.max_requests_per_second", "HH_MAX_REQUESTS_PER_SECOND")
}
