package config

import (
	"github.com/kabaddi-live/scoring-service/internal/logger"
)

type Config struct {
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Server   ServerConfig        `mapstructure:"server"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Match    MatchConfig         `mapstructure:"match"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// MatchConfig carries the rule knobs left open by the rulebook plus the
// default timing settings applied to new matches. Durations in seconds.
type MatchConfig struct {
	SuperTackleThreshold int    `mapstructure:"super_tackle_threshold"`
	RotationPolicy       string `mapstructure:"rotation_policy"`
	HalfDuration         int    `mapstructure:"half_duration"`
	NumberOfHalves       int    `mapstructure:"number_of_halves"`
	RaidDuration         int    `mapstructure:"raid_duration"`
	BreakDuration        int    `mapstructure:"break_duration"`
	TimeoutsPerHalf      int    `mapstructure:"timeouts_per_half"`
}
