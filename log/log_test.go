package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("error", "bad"), slog.Int("code", 7))
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.fn(Make(&buf, WithLevel(tt.min)), "message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("logged = %v, want %v: %q", logged, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelTrace))
	logger.TraceContext(t.Context(), "hello", slog.String("key", "value"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}

	if rec["msg"] != "hello" || rec["key"] != "value" || rec["level"] != "TRACE" {
		t.Errorf("record = %v", rec)
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithPretty(false), WithTimeLayout("none")).
		Info("hello", slog.String("key", "value"))

	if got, want := buf.String(), "level=INFO msg=hello key=value\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Info("hello")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("output = %q, want caller log_test.go", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none")).
		With(slog.String("component", "eval"))

	logger.Info("hello",
		slog.Int("n", 3),
		slog.Bool("ok", true),
		slog.Any("err", valuer{}),
		slog.Group("g", slog.String("k", "v")),
	)

	got := buf.String()

	for _, want := range []string{
		"level=INFO", "msg=hello", "component=eval", "n=3", "ok=true",
		"err.error=bad", "err.code=7", "g.k=v",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want %q", got, want)
		}
	}
}

func TestLogger_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none")).
		Warn("careful", slog.Any("error", errors.New("boom")))

	got := buf.String()
	if !strings.HasPrefix(got, "{\n") || !strings.HasSuffix(got, "}\n") {
		t.Errorf("output = %q, want an indented object", got)
	}

	for _, want := range []string{"level: WARN", "msg: careful", "error: boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want %q", got, want)
		}
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("levels = %v, %v, want error, debug", base.Level(), wrapped.Level())
	}

	wrapped.Debug("visible")
	base.Debug("hidden")

	if got := buf.String(); !strings.Contains(got, "visible") || strings.Contains(got, "hidden") {
		t.Errorf("output = %q", got)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Info("ignored")
	l.TraceContext(t.Context(), "ignored")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on zero Logger returned a live logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero Logger level, format = %v, %v", l.Level(), l.Format())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			logger.Info("concurrent", slog.Int("id", i))
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 100 {
		t.Errorf("lines = %d, want 100", n)
	}
}

func TestDefault(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithFormat(FormatJSON), WithPretty(false)))
	Config(WithLevel(LevelDebug))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.fn("message", slog.String("key", "value"))

		got := buf.String()
		if !strings.Contains(got, `"level":"`+tt.level+`"`) || !strings.Contains(got, `"key":"value"`) {
			t.Errorf("%s output = %q", tt.level, got)
		}
	}
}
