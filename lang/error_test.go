package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := ErrUndefinedVariable.Detail("`x`").With(slog.String("name", "x"))

	if !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("errors.Is(%v, ErrUndefinedVariable) = false", err)
	}

	if errors.Is(err, ErrSyntax) {
		t.Errorf("errors.Is(%v, ErrSyntax) = true", err)
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrUndefinedVariable) {
		t.Errorf("wrapped error lost its sentinel")
	}

	if got := err.Error(); got != "undefined variable: `x`" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Wrap(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrReadInput.Detail("bindings.yaml").Wrap(cause)

	if !errors.Is(err, cause) || !errors.Is(err, ErrReadInput) {
		t.Errorf("wrapped error does not match both cause and sentinel")
	}

	if got := err.Error(); got != "failed to read input: bindings.yaml: disk full" {
		t.Errorf("Error() = %q", got)
	}

	if WrapError(err) != err {
		t.Errorf("WrapError rewrapped an *Error")
	}

	if got := WrapError(cause).Error(); got != "disk full" {
		t.Errorf("WrapError(cause).Error() = %q", got)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrOperand.Detail("bad").With(slog.String("operator", "+"))

	var sb strings.Builder

	logger := slog.New(slog.NewTextHandler(&sb, nil))
	logger.Error("failed", slog.Any("err", err))

	out := sb.String()
	for _, want := range []string{"err.error=", "err.detail=bad", "err.operator=+"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}
