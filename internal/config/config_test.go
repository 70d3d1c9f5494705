package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090
read_timeout = 5

[logs]
file = "logs/test.log"
level = "debug"

[storage]
driver = "postgres"

[database]
host = "localhost"
port = 5432
user = "svc"
password = "secret"
dbname = "facilities"
sslmode = "disable"

[metrics]
enabled = true
path = "/metrics"
service_name = "facility-service-test"

[sweep]
enabled = true
schedule = "@every 30s"

[[users]]
id = "admin-1"
name = "Admin"
role = "admin"

[[facilities]]
id = "DR-101"
name = "Discussion Room 101"
type = "discussion_room"
location = "Library, Level 1"
capacity = 8
privilege = "open"
equipment = ["whiteboard", "tv"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "host=localhost port=5432 user=svc password=secret dbname=facilities sslmode=disable", cfg.Database.DSN())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "@every 30s", cfg.Sweep.Schedule)

	require.Len(t, cfg.Users, 1)
	assert.Equal(t, "admin", cfg.Users[0].Role)

	require.Len(t, cfg.Facilities, 1)
	assert.Equal(t, "DR-101", cfg.Facilities[0].ID)
	assert.Equal(t, []string{"whiteboard", "tv"}, cfg.Facilities[0].Equipment)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, ``)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 15, cfg.Server.WriteTimeout)
	assert.Equal(t, 60, cfg.Server.IdleTimeout)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "logs/app.log", cfg.Logs.File)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "facility-service", cfg.Metrics.ServiceName)
	assert.False(t, cfg.Sweep.Enabled)
	assert.Equal(t, "@every 1m", cfg.Sweep.Schedule)
}

func TestLoad_UnknownDriver(t *testing.T) {
	path := writeConfig(t, `
[storage]
driver = "cassandra"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
