package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches into an empty temporary directory for the duration of the test
func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})

	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestTreasury"
	testPort := 9090
	testLogLevel := "debug"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nTREASURY_HOLD_AMOUNT=250000\nTREASURY_FX_RATES=EUR:1.10,GBP:1.27\n",
		testAppName, testPort, testLogLevel,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.True(t, decimal.NewFromInt(250000).Equal(cfg.Treasury.HoldAmount))
	assert.True(t, decimal.RequireFromString("1.10").Equal(cfg.Treasury.FXRates["EUR"]))
	assert.True(t, decimal.RequireFromString("1.27").Equal(cfg.Treasury.FXRates["GBP"]))

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, SeedSourceFixtures, cfg.Treasury.SeedSource)
	assert.Equal(t, 20, cfg.Treasury.ActivityLogLimit)
	assert.Equal(t, "john.doe@company.com", cfg.Treasury.ApproverEmail)
	assert.Equal(t, TransitionPolicyStrict, cfg.Treasury.TransitionPolicy)
	assert.Equal(t, "treasury_events", cfg.Kafka.EventsTopic)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_DefaultsAreValid(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("missing_file")
	require.NoError(t, err, "Default config should be valid")

	assert.True(t, decimal.NewFromInt(100000).Equal(cfg.Treasury.HoldAmount))
	assert.True(t, decimal.RequireFromString("1.08").Equal(cfg.Treasury.FXRates["EUR"]))
	assert.Equal(t, "USD", cfg.Treasury.BaseCurrency)
	assert.Equal(t, "1", cfg.Treasury.ActorUserID)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		errContains string
	}{
		{
			name:        "UnknownSeedSource",
			env:         map[string]string{"TREASURY_SEED_SOURCE": "redis"},
			errContains: "TREASURY_SEED_SOURCE must be one of",
		},
		{
			name:        "UnknownTransitionPolicy",
			env:         map[string]string{"TREASURY_TRANSITION_POLICY": "lenient"},
			errContains: "TREASURY_TRANSITION_POLICY must be strict or permissive",
		},
		{
			name:        "NegativeHold",
			env:         map[string]string{"TREASURY_HOLD_AMOUNT": "-1"},
			errContains: "TREASURY_HOLD_AMOUNT must not be negative",
		},
		{
			name:        "MalformedHold",
			env:         map[string]string{"TREASURY_HOLD_AMOUNT": "lots"},
			errContains: "TREASURY_HOLD_AMOUNT",
		},
		{
			name:        "MalformedRates",
			env:         map[string]string{"TREASURY_FX_RATES": "EUR=1.08"},
			errContains: "TREASURY_FX_RATES",
		},
		{
			name:        "PostgresCheckedWhenSeedSourceIsPostgres",
			env:         map[string]string{"TREASURY_SEED_SOURCE": "postgres", "POSTGRES_MAX_CONNS": "0"},
			errContains: "POSTGRES_MAX_CONNS must be greater than 0",
		},
		{
			name:        "KafkaCheckedWhenEnabled",
			env:         map[string]string{"KAFKA_ENABLED": "true", "WORKER_POOL_SIZE": "0"},
			errContains: "WORKER_POOL_SIZE must be greater than 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chdirTemp(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig("missing_file")
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoadConfig_DisabledSubsystemsAreNotValidated(t *testing.T) {
	chdirTemp(t)
	t.Setenv("POSTGRES_MAX_CONNS", "0")
	t.Setenv("MONGO_TIMEOUT", "0s")
	t.Setenv("WORKER_POOL_SIZE", "0")

	cfg, err := LoadConfig("missing_file")
	require.NoError(t, err)
	assert.Equal(t, SeedSourceFixtures, cfg.Treasury.SeedSource)
}

func TestParseRates(t *testing.T) {
	t.Run("ParsesPairs", func(t *testing.T) {
		rates, err := ParseRates(" eur:1.08 , GBP:1.27,")
		require.NoError(t, err)
		require.Len(t, rates, 2)
		assert.True(t, decimal.RequireFromString("1.08").Equal(rates["EUR"]))
		assert.True(t, decimal.RequireFromString("1.27").Equal(rates["GBP"]))
	})

	t.Run("EmptyInput", func(t *testing.T) {
		rates, err := ParseRates("")
		require.NoError(t, err)
		assert.Empty(t, rates)
	})

	t.Run("Rejects", func(t *testing.T) {
		for _, raw := range []string{"EUR", "EURO:1.0", "EUR:abc", "EUR:0", "EUR:-1.2"} {
			_, err := ParseRates(raw)
			assert.Error(t, err, raw)
		}
	})
}
