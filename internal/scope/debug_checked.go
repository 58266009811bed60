//go:build bearc_debug

package scope

const debugChecks = true
