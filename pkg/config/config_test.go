package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gompi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.GreaterOrEqual(t, cfg.Workers, 1)
	require.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 8
log_level: debug
http:
  port: 8080
nats:
  url: nats://nats.internal:4222
  subject: quadrature
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, logrus.DebugLevel, cfg.Level())
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, "nats://nats.internal:4222", cfg.NATS.URL)
	require.Equal(t, "quadrature", cfg.NATS.Subject)
}

func TestLoadKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, "workers: 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, Default().HTTP.Port, cfg.HTTP.Port)
	require.Equal(t, Default().NATS.Subject, cfg.NATS.Subject)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero workers": "workers: 0\n",
		"bad level":    "log_level: chatty\n",
		"bad port":     "http:\n  port: 70000\n",
		"empty url":    "nats:\n  url: \"\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
