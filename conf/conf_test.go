package conf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesOverrides(t *testing.T) {
	src := strings.NewReader(`
[http]
port = 9001
ping_interval = 15

[database]
file = "custom.db"
`)
	c, err := load(src)
	require.NoError(t, err)
	assert.EqualValues(t, 9001, c.HTTPPort)
	assert.Equal(t, 15*time.Second, c.PingInterval)
	assert.Equal(t, "custom.db", c.Database)
	// Unset fields keep the compiled-in default.
	assert.Equal(t, defaultConfig.IdleTimeout, c.IdleTimeout)
}

func TestDumpRoundTrips(t *testing.T) {
	c := defaultConfig
	c.HTTPPort = 4242

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))

	reloaded, err := load(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 4242, reloaded.HTTPPort)
}
