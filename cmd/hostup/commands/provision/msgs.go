package provision

// Message constants
const (
	MsgShort = "Install packages and baseline configuration"
	MsgLong  = `The 'provision' command brings a fresh host to hostup's baseline:
  - Installs the configured package set (nginx, php-fpm, fail2ban, git, ...)
  - Publishes the catch-all nginx default site
  - Writes the fail2ban jail for nginx and restarts fail2ban

Every concern is its own atomic group: configuration is staged, validated
with the service's own syntax check, and only then moved into place.
Provisioning is idempotent; re-running it on an already provisioned host
changes nothing.`

	MsgExample = `  # Provision this host
  sudo hostup provision

  # See what would change first
  sudo hostup provision --dry-run`

	MsgHeader = "Provisioning host"
)
