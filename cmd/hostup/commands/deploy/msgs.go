package deploy

// Message constants
const (
	MsgShort = "Deploy an application to this host"
	MsgLong  = `The 'deploy' command fetches an application, renders its runtime
configuration and publishes the nginx vhost for it. The kind selects the
recipe:

  static  clone + nginx site serving the checkout
  php     clone + php-fpm pool + nginx site over the pool socket
  node    clone + systemd unit (or supervisor program) + nginx proxy site

Values come from flags first, then from a hostup.yaml manifest in an
existing checkout, then from interactive prompts. With --yes nothing is
asked; missing required values fail instead of hanging.`

	MsgExample = `  # Deploy a static site
  sudo hostup deploy static --name landing --domain example.com \
      --repo https://github.com/acme/landing.git

  # Deploy a node service under supervisor
  sudo hostup deploy node --name api --domain api.example.com \
      --repo https://github.com/acme/api.git \
      --start "node server.js" --port 3000 --manager supervisor

  # Re-deploy from the manifest in the existing checkout
  sudo hostup deploy php --name shop --yes`

	// Prompts
	MsgAskName   = "Application name"
	MsgAskDomain = "Domain name"
	MsgAskPort   = "Port the app listens on"
	MsgAskStart  = "Start command"

	// Flag descriptions
	MsgFlagName      = "Application folder name under the apps directory"
	MsgFlagDomain    = "Domain the nginx site answers for"
	MsgFlagRepo      = "Git URL to clone; omit to deploy an existing checkout"
	MsgFlagPort      = "Port the app listens on (node)"
	MsgFlagStart     = "Process start command (node)"
	MsgFlagBuild     = "Build command to run in the app root (repeatable)"
	MsgFlagManager   = "Process manager for node apps: systemd or supervisor"
	MsgFlagOverwrite = "Replace a non-empty destination that is not a checkout"

	MsgHeaderFormat = "Deploying %s app %q"
)
