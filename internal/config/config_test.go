package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "development defaults pass",
			config: Config{
				Env:        "development",
				Port:       "8480",
				JWTSecret:  "your-secret-key-change-in-production",
				DBPassword: "password",
			},
			expectError: false,
		},
		{
			name: "missing port",
			config: Config{
				Env:       "development",
				JWTSecret: "secret",
			},
			expectError: true,
		},
		{
			name: "missing JWT secret",
			config: Config{
				Env:  "development",
				Port: "8480",
			},
			expectError: true,
		},
		{
			name: "production rejects default JWT secret",
			config: Config{
				Env:        "production",
				Port:       "8480",
				JWTSecret:  "your-secret-key-change-in-production",
				DBPassword: "strong-enough",
			},
			expectError: true,
		},
		{
			name: "production rejects short JWT secret",
			config: Config{
				Env:        "production",
				Port:       "8480",
				JWTSecret:  "short",
				DBPassword: "strong-enough",
			},
			expectError: true,
		},
		{
			name: "production rejects weak DB password",
			config: Config{
				Env:        "production",
				Port:       "8480",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "password",
			},
			expectError: true,
		},
		{
			name: "production with strong values passes",
			config: Config{
				Env:        "production",
				Port:       "8480",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				DBPassword: "something-strong",
				DBSSLMode:  "require",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}
