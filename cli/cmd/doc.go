// Package cmd implements the smpl subcommands.
//
// Each command reads its shared state from the [context.Context] passed to
// Run: the [kong.Context] ([WithContext]), the runtime paths ([WithPaths]),
// the binding sources ([WithSetup]) and the standard streams ([WithStdio]).
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It also names the mapping in that file holding
	// flag values.
	ConfigIdentifier = "config"
)
