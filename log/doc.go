// Package log wraps [log/slog] with a small value-typed [Logger] that accepts
// only typed [slog.Attr] attributes.
//
// A Logger is configured once with functional options and never changes
// afterward. [Logger.Wrap] derives a reconfigured copy. The zero Logger
// discards everything.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true),
//	)
//
//	logger.Info("bindings loaded", slog.String("file", path), slog.Int("count", n))
//	logger = logger.With(slog.String("component", "repl"))
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-step evaluator
// output. [ParseLevel] accepts the names from [Levels] as well as any form
// understood by [slog.Level], such as "debug+2".
//
// # Formats
//
// [FormatText] is the default. [FormatJSON] writes one object per record.
// With [WithPretty], either format is colorized for terminals and group
// attributes are flattened into dotted keys.
//
// # Package Logger
//
// The package-level functions log through [Default], which [Config]
// reconfigures in place. Functions without a context argument use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
