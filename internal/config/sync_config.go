package config

import (
	"errors"

	"github.com/spf13/viper"
)

type SyncConfig struct {
	RefreshCron   string `mapstructure:"refresh_cron"`
	StalenessCron string `mapstructure:"staleness_cron"`
	StalenessDays int    `mapstructure:"staleness_days"`
}

func (config SyncConfig) validate() error {
	if config.StalenessDays <= 0 {
		return errors.New("staleness_days must be greater than zero")
	}
	return nil
}

func (config SyncConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("sync.refresh_cron", "SYNC_REFRESH_CRON")
	if err != nil {
		return err
	}

	err = viper.BindEnv("sync.staleness_cron", "SYNC_STALENESS_CRON")
	if err != nil {
		return err
	}

	return viper.BindEnv("sync.staleness_days", "SYNC_STALENESS_DAYS")
}
