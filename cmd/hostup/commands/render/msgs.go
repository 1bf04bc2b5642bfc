package render

// Message constants
const (
	MsgShort = "Render a template with the given substitutions"
	MsgLong  = `The 'render' command gives direct access to hostup's template
renderer. It resolves the template name against your override directory
first, then the built-in set, substitutes every {PLACEHOLDER} with the
values given via --set, and prints the result (or writes it with -o).

Rendering is all-or-nothing: if any placeholder is missing a value, the
command fails naming the first unresolved one and produces no output.`

	MsgExample = `  # Render the static nginx site to stdout
  hostup render nginx-static.conf --set DOMAIN=example.com --set APP_ROOT=/var/www/landing

  # Write a systemd unit to a file
  hostup render systemd-unit.service \
      --set APP_NAME=api --set USER=www-data --set APP_ROOT=/var/www/api \
      --set START_COMMAND="node server.js" --set PORT=3000 \
      -o /etc/systemd/system/api.service`

	// Flag descriptions
	MsgFlagSet    = "Substitution as KEY=VALUE (repeatable)"
	MsgFlagOutput = "Write the rendered output to this file instead of stdout"
)
