// Package testutil provides shared test helpers: an in-memory filesystem,
// file assertions, and a scripted process runner so collaborator-driven code
// can be tested without touching the host.
package testutil
