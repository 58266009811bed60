// Package compilerconfig holds the driver-level flags that parameterize
// a compilation run, kept as a plain struct following the teacher
// pack's `ya` flag-struct convention rather than a config-file format
// (spec §6 "Persisted state: None").
package compilerconfig

// Config is the set of driver flags a single bearc invocation accepts
// (spec §6 "Command-line surface").
type Config struct {
	RootFile string

	// SearchPaths is the ordered import-path list; the current working
	// directory is implicitly prepended by the caller (spec §6
	// "Environment").
	SearchPaths []string

	TokenTable bool
	PrettyPrint bool
	Silent      bool
	ListFiles   bool
}
