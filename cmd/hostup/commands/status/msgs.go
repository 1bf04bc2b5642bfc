package status

// Message constants
const (
	MsgShort = "Summarize the most recent run"
	MsgLong  = `The 'status' command reads the latest run receipt and summarizes
it: when the run happened, what it did, and each group's outcome. Receipts
are written for every provision and deploy run.`

	MsgExample = `  # What did the last run do?
  hostup status`

	MsgNoRuns        = "No runs recorded yet."
	MsgHeaderFormat  = "Last run: %s (%s)"
	MsgResultOK      = "succeeded"
	MsgResultFailed  = "FAILED"
	MsgGroupOK       = "  ✓ %s"
	MsgGroupFailed   = "  ✗ %s: %s"
	MsgGroupRollback = "      committed actions were rolled back"
)
