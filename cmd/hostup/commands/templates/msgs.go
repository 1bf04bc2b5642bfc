package templates

// Message constants
const (
	MsgShort = "List the built-in templates and their placeholders"
	MsgLong  = `The 'templates' command lists every built-in template with the
placeholders it needs. A file with the same name in your templates
directory shadows the built-in one; shadowed templates are marked.`

	MsgExample = `  # List templates
  hostup templates`

	MsgOverridden      = "(overridden)"
	MsgNoPlaceholders  = "no placeholders"
	MsgOverrideDirNote = "Overrides are read from %s\n"
)
