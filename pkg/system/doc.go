// Package system holds the external collaborators the engine drives: a
// process runner, the package manager, the service manager and the source
// fetcher. All of them shell out through the single Runner interface so
// tests can substitute a scripted runner and never touch the host.
package system
