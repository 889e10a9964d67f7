package config

import (
	"errors"

	"github.com/spf13/viper"
)

type AuthConfig struct {
	SecretKey                 string `mapstructure:"secret_key"`
	AccessTokenExpireMinutes  int    `mapstructure:"access_token_expire_minutes"`
	RefreshTokenExpireMinutes int    `mapstructure:"refresh_token_expire_minutes"`

	// Optional user created at startup when both values are set.
	DefaultUsername string `mapstructure:"default_username"`
	DefaultPassword string `mapstructure:"default_password"`
}

func (config AuthConfig) validate() error {
	var errs []error

	if config.SecretKey == "" {
		errs = append(errs, errors.New("missing variable: secret_key"))
	}
	if config.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("access_token_expire_minutes must be positive"))
	}
	if config.RefreshTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("refresh_token_expire_minutes must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (config AuthConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("auth.secret_key", "SECRET_KEY")
	if err != nil {
		return err
	}

	err = viper.BindEnv("auth.default_username", "DEFAULT_USERNAME")
	if err != nil {
		return err
	}

	return viper.BindEnv("auth.default_password", "DEFAULT_PASSWORD")
}
