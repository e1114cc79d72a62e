package config

import (
	"os"
	"path/filepath"
	"testing"

	"fpmine/fptree"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, DefaultConfiguration(), *cfg)
}

func TestLoadFileEnvAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
env: development
min_support: 5
min_confidence: 0.4
lift_normalizer: transactions
`)
	t.Setenv("FPMINE_MIN_SUPPORT", "7")
	t.Setenv("FPMINE_STRICT_LOOKUP", "true")

	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, 7, cfg.MinSupport)
	assert.Equal(t, 0.4, cfg.MinConfidence)
	assert.Equal(t, "transactions", cfg.LiftNormalizer)
	assert.True(t, cfg.StrictLookup)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"confidence", "min_confidence: 1.5\n"},
		{"lift", "min_lift: -1\n"},
		{"normalizer", "lift_normalizer: rows\n"},
		{"log level", "log_level: loud\n"},
		{"zero support", "min_support: 0\n"},
		{"negative support", "min_support: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.content))
			assert.True(t, fptree.IsInvalidInput(err), "got %v", err)
		})
	}

	for _, support := range []string{"-3", "0"} {
		t.Setenv("FPMINE_MIN_SUPPORT", support)
		_, err := Load("")
		assert.True(t, fptree.IsInvalidInput(err), "min support %s", support)
	}
}

func TestLoadBlankTextFieldsUseDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, "env: \"\"\nlog_level: \"\"\nmin_support: 4\n"))
	require.Nil(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MinSupport)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)

	_, err = Load(writeConfigFile(t, "min_support: [1, 2\n"))
	assert.NotNil(t, err)

	_, err = Load(writeConfigFile(t, "unknown_key: 1\n"))
	assert.NotNil(t, err)
}

func TestRuleGenerator(t *testing.T) {
	cfg := DefaultConfiguration()
	cfg.MinConfidence = 0.5
	cfg.MinLift = 1.1
	cfg.LiftNormalizer = "transactions"
	cfg.StrictLookup = true

	g, err := cfg.RuleGenerator(42)
	require.Nil(t, err)
	assert.Equal(t, fptree.RuleGenerator{
		MinConfidence: 0.5,
		MinLift:       1.1,
		Normalizer:    fptree.NormalizeByTransactions,
		Transactions:  42,
		Strict:        true,
	}, g)
}

func TestInitLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	cfg := DefaultConfiguration()
	cfg.LogLevel = "warn"
	InitLogging(&cfg)
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	cfg.Env = DEVELOPMENT
	InitLogging(&cfg)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestInitAndGetConfig(t *testing.T) {
	defer func(level log.Level, formatter log.Formatter) {
		log.SetLevel(level)
		log.SetFormatter(formatter)
		configuration, initiated = nil, false
	}(log.GetLevel(), log.StandardLogger().Formatter)
	configuration, initiated = nil, false

	assert.NotNil(t, Init(writeConfigFile(t, "min_support: 0\n")))
	assert.Nil(t, GetConfig())

	path := writeConfigFile(t, "min_support: 3\nlog_level: warn\n")
	require.Nil(t, Init(path))
	require.NotNil(t, GetConfig())
	assert.Equal(t, 3, GetConfig().MinSupport)
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	err := Init(writeConfigFile(t, "min_support: 9\n"))
	assert.NotNil(t, err)
	assert.Equal(t, 3, GetConfig().MinSupport)
}
