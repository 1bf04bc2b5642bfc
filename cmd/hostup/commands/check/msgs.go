package check

// Message constants
const (
	MsgShort = "Show which provisioning actions would apply"
	MsgLong  = `The 'check' command runs every check of the provisioning plan and
reports, per action, whether the host already satisfies it. Nothing is
mutated and no lock is taken; checks are side-effect-free by contract.`

	MsgExample = `  # See what 'hostup provision' would do
  hostup check`

	MsgHeader = "Checking provisioning plan"
)
