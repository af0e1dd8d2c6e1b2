package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/smpl/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelWarn),
	)

	logger.Info("hidden")
	logger.Warn("disk low", slog.Int("free_mb", 12))
	// Output: level=WARN msg="disk low" free_mb=12
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout("none")).
		With(slog.String("request_id", "12345"))

	logger.Info("processing request")
	// Output: level=INFO msg="processing request" request_id=12345
}
