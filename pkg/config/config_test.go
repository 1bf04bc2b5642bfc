// Test Type: Unit Test
// Description: Tests for layered config loading - defaults, file, environment.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hostup/hostup/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Contains(t, cfg.Provision.Packages, "nginx")
	assert.Equal(t, "/etc/nginx/sites-available", cfg.Nginx.SitesAvailable)
	assert.Equal(t, "/etc/nginx/sites-enabled", cfg.Nginx.SitesEnabled)
	assert.Equal(t, "nginx -t", cfg.Nginx.CheckCommand)
	assert.Equal(t, "nginx", cfg.Nginx.Service)
	assert.Equal(t, "/var/www", cfg.Deploy.AppsDir)
	assert.Equal(t, "www-data", cfg.Deploy.User)
	assert.Equal(t, "/etc/systemd/system", cfg.Systemd.UnitDir)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hostup.toml")
	content := "[nginx]\nservice = \"openresty\"\n\n[deploy]\napps_dir = \"/srv/apps\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openresty", cfg.Nginx.Service)
	assert.Equal(t, "/srv/apps", cfg.Deploy.AppsDir)
	// untouched keys keep their defaults
	assert.Equal(t, "/etc/nginx/sites-available", cfg.Nginx.SitesAvailable)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "nginx", cfg.Nginx.Service)
}

func TestEnvOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hostup.toml")
	require.NoError(t, os.WriteFile(path, []byte("[nginx]\nservice = \"openresty\"\n"), 0644))

	t.Setenv("HOSTUP_NGINX_SERVICE", "nginx-custom")
	t.Setenv("HOSTUP_NGINX_SITES_AVAILABLE", "/opt/nginx/sites")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nginx-custom", cfg.Nginx.Service)
	assert.Equal(t, "/opt/nginx/sites", cfg.Nginx.SitesAvailable)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hostup.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
