// Package cli contains the command line interface for smpl.
//
// # Usage
//
// Without a subcommand, each argument is evaluated as an expression:
//
//	smpl -b site.yaml 'host ~ ":" ~ port'
//	smpl -D 'n=6' 'n * 7'
//
// Expressions are read from standard input, one per line, when none are
// given or an argument is "-".
//
// # Configuration
//
// Flag defaults are read from the "config" mapping of the YAML file in the
// user configuration directory, which the init subcommand writes. Flags
// given on the command line take precedence.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory
//
// For example:
//
//	go build -tags pprof -o smpl .
package cli
