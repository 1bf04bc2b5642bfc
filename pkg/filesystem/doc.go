// Package filesystem provides the filesystem abstraction used by the action
// and transaction engines. Production code uses the OS implementation; tests
// use an afero-backed in-memory implementation.
package filesystem
