package unlock

// Message constants
const (
	MsgShort = "Inspect and remove a stale run lock"
	MsgLong  = `Only one hostup run may mutate a host at a time; runs hold an
exclusive lock file for their duration. If a run was killed, its lock can
be left behind and every later run fails with ALREADY_RUNNING.

'unlock' inspects the lock: a lock whose recorded process is gone is
removed; a lock held by a live process is refused unless --force is given.`

	MsgExample = `  # Remove a stale lock
  sudo hostup unlock

  # Remove the lock even if the holder is still alive
  sudo hostup unlock --force`

	// Flag descriptions
	MsgFlagForce = "Remove the lock even if the holding process is alive"

	MsgNoLock      = "No lock at %s"
	MsgLockInfo    = "Lock at %s: pid %d on %s, held for %s, holder %s"
	MsgHolderAlive = "alive"
	MsgHolderGone  = "gone"
	MsgLockRemoved = "Lock removed"
)
