package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewAndAccessors(t *testing.T) {
	t.Parallel()

	err := New(CodeNotFound, "order not found")
	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Message() != "order not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: order not found" {
		t.Fatalf("unexpected Error() %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := Wrap(CodeDependency, cause, "load product")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() == cause.Error() {
		t.Fatal("expected the wrapper to carry its own message")
	}
}

func TestAs(t *testing.T) {
	t.Parallel()

	typed := New(CodeConflict, "email already registered")
	wrapped := fmt.Errorf("handling request: %w", typed)

	if got := As(wrapped); got == nil || got.Code() != CodeConflict {
		t.Fatalf("expected typed error through wrapping, got %v", got)
	}
	if got := As(errors.New("plain")); got != nil {
		t.Fatalf("expected nil for untyped error, got %v", got)
	}
	if got := As(nil); got != nil {
		t.Fatalf("expected nil for nil error, got %v", got)
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeInsufficientStock, "insufficient stock for Widget").
		WithDetails(map[string]any{"productId": 7})

	details, ok := err.Details().(map[string]any)
	if !ok || details["productId"] != 7 {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInsufficientStock, http.StatusBadRequest},
		{CodeEmptyCart, http.StatusBadRequest},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}

	// Unknown codes fall back to an internal error shape.
	if got := MetadataFor(Code("MYSTERY")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected fallback 500, got %d", got)
	}
}
