package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	logpkg "github.com/kabaddi-live/scoring-service/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		config         *logpkg.LoggerConfig
		expectError    bool
		validateOutput func(zerolog.Logger) bool
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				TimeFormat:     "unix",
				Fields:         map[string]interface{}{"key": "value"},
			},
			expectError: false,
			validateOutput: func(zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "invalid configuration - wrong env",
			config: &logpkg.LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env", // not allowed by validator
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "valid development environment with debug level",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "dev",
				Level:          "debug",
				TimeField:      "timestamp",
				TimeFormat:     "unix",
				WithCaller:     true,
				Stacktrace:     true,
			},
			expectError: false,
			validateOutput: func(zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.DebugLevel
			},
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "invalid-level", // not allowed
				TimeField:      "timestamp",
				TimeFormat:     "unix",
			},
			expectError: true,
		},
		{
			name: "valid staging environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "2.0.0",
				Env:            "staging",
				Level:          "warn",
				TimeField:      "time",
				TimeFormat:     "unix",
				Stacktrace:     true,
			},
			expectError: false,
			validateOutput: func(zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.WarnLevel
			},
		},
		{
			name:        "defaults fill an empty config",
			config:      &logpkg.LoggerConfig{},
			expectError: false,
			validateOutput: func(zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := logpkg.New(test.config)
			if test.expectError {
				assert.NotNil(t, err)
			} else {
				assert.NoError(t, err)
				if test.validateOutput != nil {
					assert.True(t, test.validateOutput(l))
				}
			}
		})
	}
}
