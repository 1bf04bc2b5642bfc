// Package config loads hostup's layered configuration: embedded defaults,
// then the host's hostup.toml, then HOSTUP_* environment overrides.
package config

import (
	_ "embed"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hostup/hostup/pkg/errors"
)

//go:embed hostup.toml
var defaultConfig []byte

// envPrefix is the prefix for environment overrides, e.g.
// HOSTUP_NGINX_SERVICE=openresty
const envPrefix = "HOSTUP_"

// ProvisionConfig configures the base provisioning plan
type ProvisionConfig struct {
	Packages []string `koanf:"packages"`
}

// NginxConfig locates nginx's vhost directories and commands
type NginxConfig struct {
	SitesAvailable string `koanf:"sites_available"`
	SitesEnabled   string `koanf:"sites_enabled"`
	CheckCommand   string `koanf:"check_command"`
	Service        string `koanf:"service"`
}

// PHPConfig locates php-fpm's pool directory and commands
type PHPConfig struct {
	PoolDir      string `koanf:"pool_dir"`
	CheckCommand string `koanf:"check_command"`
	Service      string `koanf:"service"`
}

// DeployConfig configures where applications are deployed
type DeployConfig struct {
	AppsDir string `koanf:"apps_dir"`
	User    string `koanf:"user"`
}

// Fail2banConfig configures the jail hostup maintains
type Fail2banConfig struct {
	JailDir  string `koanf:"jail_dir"`
	Service  string `koanf:"service"`
	MaxRetry string `koanf:"max_retry"`
	BanTime  string `koanf:"ban_time"`
}

// SupervisorConfig locates supervisor's program directory
type SupervisorConfig struct {
	ConfDir string `koanf:"conf_dir"`
	Service string `koanf:"service"`
}

// SystemdConfig locates the unit directory hostup writes units to
type SystemdConfig struct {
	UnitDir string `koanf:"unit_dir"`
}

// Config is the fully resolved configuration
type Config struct {
	Provision  ProvisionConfig  `koanf:"provision"`
	Nginx      NginxConfig      `koanf:"nginx"`
	PHP        PHPConfig        `koanf:"php"`
	Deploy     DeployConfig     `koanf:"deploy"`
	Fail2ban   Fail2banConfig   `koanf:"fail2ban"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
	Systemd    SystemdConfig    `koanf:"systemd"`
}

// Load resolves the configuration. configFile may be absent; defaults and
// environment still apply.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load built-in defaults")
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load config from %s", configFile)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}
	return &cfg, nil
}

// envKey maps HOSTUP_NGINX_SITES_AVAILABLE to nginx.sites_available: the
// first underscore separates section from key, the rest belong to the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}
