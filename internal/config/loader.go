package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.setDefaults()
	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Match.SuperTackleThreshold <= 0 {
		c.Match.SuperTackleThreshold = 3
	}
	if c.Match.RotationPolicy == "" {
		c.Match.RotationPolicy = "alternate"
	}
	if c.Match.HalfDuration <= 0 {
		c.Match.HalfDuration = 20 * 60
	}
	if c.Match.NumberOfHalves <= 0 {
		c.Match.NumberOfHalves = 2
	}
	if c.Match.RaidDuration <= 0 {
		c.Match.RaidDuration = 30
	}
	if c.Match.BreakDuration <= 0 {
		c.Match.BreakDuration = 5 * 60
	}
	if c.Match.TimeoutsPerHalf <= 0 {
		c.Match.TimeoutsPerHalf = 2
	}
}
