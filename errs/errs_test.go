package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesWrappedKind(t *testing.T) {
	base := New(NotFound, "thing.Get", fmt.Errorf("no row"))
	wrapped := fmt.Errorf("lookup failed: %w", base)

	if !Is(wrapped, NotFound) {
		t.Fatal("expected Is to find NotFound through fmt.Errorf wrapping")
	}
	if Is(wrapped, ValidationError) {
		t.Fatal("expected Is to reject an unrelated Kind")
	}
}

func TestOf_ReturnsFalseForPlainErrors(t *testing.T) {
	if _, ok := Of(errors.New("plain")); ok {
		t.Fatal("expected Of to report false for a non-*Error")
	}
}

func TestError_UnwrapReachesUnderlying(t *testing.T) {
	underlying := errors.New("root cause")
	e := New(ToolExecutionError, "tool.Call", underlying)
	if !errors.Is(e, underlying) {
		t.Fatal("expected errors.Is to reach the wrapped underlying error")
	}
}
