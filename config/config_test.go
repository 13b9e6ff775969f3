package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/tenure-engine/tenure"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "tenure.db", cfg.Database.Path)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
}

func TestDecode_PartialFileKeepsDefaults(t *testing.T) {
	// GIVEN: A file that only sets a few keys
	src := `
server:
  port: 9090
tenure:
  negative_range: clamp
scheduler:
  interval: 15m
`
	// WHEN: Decoding
	cfg, err := Decode(strings.NewReader(src))

	// THEN: Set keys win, the rest keep defaults
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "tenure.db", cfg.Database.Path)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.Interval)
	assert.True(t, cfg.Scheduler.Enabled)

	policy, err := cfg.RangePolicy()
	require.NoError(t, err)
	assert.Equal(t, tenure.RangeClamp, policy)
}

func TestDecode_EmptyInput(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "server:\n  prot: 1\n"},
		{"bad range policy", "tenure:\n  negative_range: wrap\n"},
		{"zero interval", "scheduler:\n  interval: 0s\n"},
		{"port out of range", "server:\n  port: 70000\n"},
		{"empty db path", "database:\n  path: \"\"\n"},
		{"not yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestDecode_DisabledSchedulerIgnoresInterval(t *testing.T) {
	_, err := Decode(strings.NewReader("scheduler:\n  enabled: false\n  interval: 0s\n"))

	assert.NoError(t, err)
}

func TestFromArgs(t *testing.T) {
	// GIVEN: A config file and some flags
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\ndatabase:\n  path: file.db\n"), 0o600))

	// WHEN: Flags are given after -config
	cfg, err := FromArgs([]string{"-config", path, "-db", ":memory:", "-seed=false"})

	// THEN: Explicit flags override the file, others keep file values
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.False(t, cfg.Seed.Enabled)
}

func TestFromArgs_NoFile(t *testing.T) {
	cfg, err := FromArgs([]string{"-port", "3000"})

	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "tenure.db", cfg.Database.Path)
	assert.True(t, cfg.Seed.Enabled)
}

func TestFromArgs_MissingFile(t *testing.T) {
	_, err := FromArgs([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")})

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCalculator(t *testing.T) {
	cfg := Defaults()
	cfg.Tenure.NegativeRange = "passthrough"
	cfg.Tenure.AllowNegativeClaims = true

	calc, err := cfg.Calculator(tenure.FixedClock(tenure.Date(2024, time.August, 15)))

	require.NoError(t, err)
	assert.Equal(t, tenure.RangePassthrough, calc.RangePolicy)
	assert.True(t, calc.AllowNegativeClaims)
}
