package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewConfig_defaults(t *testing.T) {
	conf := NewConfig()
	require.NotNil(t, conf)

	assert.Equal(t, "Sivitas", conf.AppName)
	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.Debug)
	assert.NotEmpty(t, conf.SecretKey)

	assert.Equal(t, ":3000", conf.Server.Address)
	assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)

	assert.Equal(t, "http://localhost:8080/api", conf.API.BaseURL)
	assert.Equal(t, 10*time.Second, conf.API.Timeout)

	assert.Equal(t, "sivitas_session", conf.Session.CookieName)
	assert.Equal(t, 10*time.Second, conf.Session.PollInterval)
	assert.Equal(t, 30*time.Minute, conf.Session.IdleTimeout)
	assert.Equal(t, time.Minute, conf.Session.JanitorInterval)
}

func Test_CleanString(t *testing.T) {
	assert.Equal(t, "abc", CleanString("  abc "))
	assert.Equal(t, "ABC", CleanString(" ABC "))
	assert.Equal(t, "abc", CleanString(" ABC ", true))
}
