package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelsearch-api/core/domain"
	"modelsearch-api/core/interfaces"
	"modelsearch-api/infrastructure/ratelimit/memory"
	"modelsearch-api/pkg/config"
	"modelsearch-api/pkg/featureflags"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	cfg.Metrics.Enabled = false
	return cfg
}

func TestBuildSources_AllEnabled(t *testing.T) {
	cfg := testConfig(t)
	deps := interfaces.Dependencies{Logger: interfaces.NopLogger{}}

	sources, err := buildSources(cfg, deps, nil, featureflags.NewStaticManager(featureflags.Defaults))
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, domain.SourcePrintables, sources[0].Name())
	assert.Equal(t, domain.SourceThingiverse, sources[1].Name())
	assert.Equal(t, domain.SourceMakerworld, sources[2].Name())
}

func TestBuildSources_RespectsFlags(t *testing.T) {
	cfg := testConfig(t)
	deps := interfaces.Dependencies{Logger: interfaces.NopLogger{}}
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.PrintablesSource:  false,
		featureflags.ThingiverseSource: true,
		featureflags.MakerworldSource:  false,
	})

	sources, err := buildSources(cfg, deps, nil, flags)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, domain.SourceThingiverse, sources[0].Name())
}

func TestBuildApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)

	a, err := buildApp(cfg, interfaces.NopLogger{}, featureflags.NewStaticManager(featureflags.Defaults))
	require.NoError(t, err)

	assert.False(t, a.provider.Enabled())
	assert.Nil(t, a.provider.Handler())
	assert.Len(t, a.service.Sources(), 3)
}

func TestBuildLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RateLimit.Limit = 0

		limiter, err := buildLimiter(cfg, interfaces.NopLogger{})
		require.NoError(t, err)
		assert.Nil(t, limiter)
	})

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig(t)

		limiter, err := buildLimiter(cfg, interfaces.NopLogger{})
		require.NoError(t, err)
		require.NotNil(t, limiter)
		defer limiter.Close()

		_, ok := limiter.(*memory.Store)
		assert.True(t, ok)
	})

	t.Run("redis unreachable falls back to memory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RateLimit.Backend = "redis"
		cfg.RateLimit.Redis.Address = "127.0.0.1:1"
		cfg.RateLimit.Window = time.Minute

		limiter, err := buildLimiter(cfg, interfaces.NopLogger{})
		require.NoError(t, err)
		require.NotNil(t, limiter)
		defer limiter.Close()

		_, ok := limiter.(*memory.Store)
		assert.True(t, ok)
	})
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	results := []domain.SearchResult{
		{Title: "Benchy", URL: "https://example.com/benchy", ImageURL: "https://example.com/b.png", Source: domain.SourcePrintables, Author: "alice"},
		{Title: "Vase", URL: "https://example.com/vase", ImageURL: "https://example.com/v.png", Source: domain.SourceMakerworld},
	}

	require.NoError(t, writeTable(&buf, results))

	out := buf.String()
	assert.Contains(t, out, "Benchy")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Makerworld")
	assert.True(t, strings.HasSuffix(out, "2 results\n"))
}

func TestWriteJSON_MatchesAPIShape(t *testing.T) {
	var buf bytes.Buffer
	results := []domain.SearchResult{
		{Title: "Benchy", URL: "u", ImageURL: "i", Source: domain.SourceThingiverse, Author: "bob"},
	}

	require.NoError(t, writeJSON(&buf, results))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Thingiverse", decoded[0]["source"])
	assert.Equal(t, "i", decoded[0]["imageUrl"])
}

func TestSearchCommand_RejectsUnknownFormat(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"search", "--format", "xml", "benchy"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestSearchCommand_RequiresTerm(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"search"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestPrintBanner_NoExtraNewline(t *testing.T) {
	var buf bytes.Buffer

	printBanner(&buf)

	assert.Equal(t, banner, buf.String())
}
