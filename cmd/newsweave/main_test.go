package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func contextWithFlags(t *testing.T, flags []cli.Flag, overrides map[string]string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	for name, value := range overrides {
		require.NoError(t, set.Set(name, value))
	}
	return cli.NewContext(nil, set, nil)
}

func TestBuildConfig_WithoutAIFlagsKeepsDefaults(t *testing.T) {
	// The ingest command carries only store flags. The AI config must
	// still validate so NewApp can start.
	c := contextWithFlags(t, storeFlags(), nil)

	cfg := buildConfig(c)
	require.NoError(t, cfg.AI.Validate())
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "news_app", cfg.MongoDBName)
}

func TestBuildConfig_AIFlagsOverrideDefaults(t *testing.T) {
	flags := append(storeFlags(), aiFlags()...)
	c := contextWithFlags(t, flags, map[string]string{
		"embedding-host":  "http://embed.internal:8080",
		"embedding-model": "nomic-embed-text",
		"oracle-host":     "https://oracle.example.com",
		"oracle-model":    "gemini-pro",
		"oracle-api-key":  "secret",
	})

	cfg := buildConfig(c)
	require.NoError(t, cfg.AI.Validate())
	assert.Equal(t, "http://embed.internal:8080/v1", cfg.AI.EmbeddingHost)
	assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
	assert.Equal(t, "https://oracle.example.com/v1", cfg.AI.OracleHost)
	assert.Equal(t, "gemini-pro", cfg.AI.OracleModel)
	assert.Equal(t, "secret", cfg.AI.OracleAPIKey)
}
