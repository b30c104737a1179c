package config

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Logging `embed:""`
	Server  `embed:""`
	Pools   `embed:""`
}

func parse(t *testing.T, args ...string) (*testCLI, error) {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	return &cli, err
}

func TestDefaults(t *testing.T) {
	cli, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, 5175, cli.Port)
	assert.Equal(t, ":5175", cli.Addr())
	assert.Equal(t, "info", cli.LogLevel)
	assert.Equal(t, "console", cli.LogFormat)
	assert.Equal(t, 10*time.Second, cli.RequestTimeout)
	assert.Equal(t, 14*24*time.Hour, cli.TokenTTL())
	assert.Equal(t, "classic", cli.DailyPool)
	assert.Empty(t, cli.PoolsFile)
	assert.False(t, cli.Production())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("JWT_EXPIRES_DAYS", "2")
	t.Setenv("POOLS_FILE", "/tmp/pools.txt")

	cli, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, 8080, cli.Port)
	assert.Equal(t, "json", cli.LogFormat)
	assert.Equal(t, 48*time.Hour, cli.TokenTTL())
	assert.Equal(t, "/tmp/pools.txt", cli.PoolsFile)
}

func TestFlagsBeatEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	cli, err := parse(t, "--port", "9090")
	require.NoError(t, err)
	assert.Equal(t, 9090, cli.Port)
}

func TestValidate(t *testing.T) {
	_, err := parse(t, "--port", "0")
	assert.ErrorContains(t, err, "port")

	_, err = parse(t, "--jwt-expires-days", "0")
	assert.ErrorContains(t, err, "jwt-expires-days")

	_, err = parse(t, "--env", "production")
	assert.ErrorContains(t, err, "jwt-secret")

	_, err = parse(t, "--env", "production", "--jwt-secret", "s3cret")
	assert.NoError(t, err)

	_, err = parse(t, "--log-level", "loud")
	assert.Error(t, err)
}
