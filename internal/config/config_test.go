package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "bet-advisor", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.25, cfg.Trading.KellyFraction)
	assert.Equal(t, 0.70, cfg.Trading.ConfidenceThreshold)
	assert.Equal(t, 5, cfg.Trading.TopN)
	assert.Equal(t, "file", cfg.Feedback.Backend)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.Error(t, err)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "bet-advisor", cfg.App.Name)
	assert.Equal(t, 0.25, cfg.Trading.KellyFraction)
	assert.Equal(t, 0.05, cfg.Trading.MaxBetFraction)
	assert.Equal(t, 5.0, cfg.Trading.MinBet)
	assert.Equal(t, "UTC", cfg.Trading.ResetTimezone)
	assert.True(t, cfg.Trading.AlwaysSuggestMinimum)
}

func TestEnvExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
}

func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.Environment = "invalid"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Trading.ResetTimezone = "Mars/Olympus_Mons"
	assert.Error(t, Validate(cfg))
}

func TestValidateCrossFieldMinBetVsDailyLimit(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Trading.MinBet = 500.0
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_bet")
}

func TestValidatePostgresRequiresDatabase(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Feedback.Backend = "postgres"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestValidateRejectsOutOfRangeKellyFraction(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	cfg.Trading.KellyFraction = 1.5
	assert.Error(t, Validate(cfg))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database = DatabaseConfig{
		Host: "localhost", Port: 5432, Name: "advisor",
		User: "u", Password: "p", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/advisor?sslmode=disable", cfg.GetDatabaseDSN())
}
