package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, cfg.SlotGrid)
	assert.Equal(t, []string{"2026-01-01", "2026-04-21", "2026-05-01"}, cfg.Holidays)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 5*time.Second, cfg.ExternalCallTimeout)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")
	t.Setenv("SLOT_GRID", "08:00,08:30")
	t.Setenv("BOT_CHANNEL_ID", "5511999999999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.SessionIdleTimeout)
	assert.Equal(t, []string{"08:00", "08:30"}, cfg.SlotGrid)
	assert.Equal(t, "5511999999999", cfg.BotChannelID)
}

func TestValidate(t *testing.T) {
	base := Config{
		SessionIdleTimeout:   time.Minute,
		SessionSweepInterval: time.Minute,
		ExternalCallTimeout:  time.Second,
		SlotGrid:             []string{"09:00"},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.SessionIdleTimeout = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.ReminderLead = -time.Minute
	assert.Error(t, bad.Validate())

	bad = base
	bad.SlotGrid = nil
	assert.Error(t, bad.Validate())
}
