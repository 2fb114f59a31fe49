package util

import (
	"fmt"

	"github.com/spf13/viper"
)

// ReadConfig. reads config.{yaml,json,toml} from dir (./data/ when empty). environment variables
// override file values.
func ReadConfig(dir string) error {
	if dir == "" {
		dir = "./data/"
	}
	viper.SetConfigName("config")
	viper.AddConfigPath(dir)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
