package commands

// Short messages (one-liners)
const (
	MsgRootShort = "One-shot provisioning and deployment for a single web host"
	MsgRootLong  = `hostup provisions a Debian-flavored web host and deploys applications
to it: nginx, php-fpm, fail2ban, systemd or supervisor managed processes.

Configuration is rendered from templates, staged next to its targets,
validated with the service's own syntax check, and only then moved into
place. Failed groups roll back; a second concurrent run is refused. Runs
are idempotent - what is already satisfied is skipped.

See 'hostup help topics' for guides on templates, transactions and
locking.`

	MsgVersionShort = "Print version information"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagQuiet   = "Suppress everything except errors"
	MsgFlagYes     = "Assume the default answer for every prompt"
	MsgFlagDryRun  = "Preview changes without executing them"

	MsgNoCommand = "no command specified"
)
