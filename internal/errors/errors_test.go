package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("create expense: %w", Validation("items[0].assigned_to", "required for non-shared items"))

	if !stderrors.Is(err, ErrValidation) {
		t.Fatalf("expected wrapped validation error to match ErrValidation")
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Fatalf("validation error must not match ErrNotFound")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"field", Validation("amount", "must be positive"), "amount: must be positive"},
		{"cause", Internal("failed to commit", stderrors.New("disk full")), "failed to commit: disk full"},
		{"bare sentinel", ErrConflict, "CONFLICT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrap: %w", NotFound("user %s", "u1"))); got != CodeNotFound {
		t.Errorf("CodeOf = %s, want %s", got, CodeNotFound)
	}
	if got := CodeOf(stderrors.New("boom")); got != CodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, CodeInternal)
	}
}

func TestToConnect(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{Validation("amount", "must be positive"), connect.CodeInvalidArgument},
		{NotFound("expense not found"), connect.CodeNotFound},
		{Conflict("share modified concurrently", nil), connect.CodeAborted},
		{PermissionDenied("not a participant"), connect.CodePermissionDenied},
		{Unauthenticated("token required", nil), connect.CodeUnauthenticated},
		{AlreadyExists("email taken"), connect.CodeAlreadyExists},
		{stderrors.New("boom"), connect.CodeInternal},
	}
	for _, tt := range tests {
		if got := ToConnect(tt.err).Code(); got != tt.want {
			t.Errorf("ToConnect(%v) code = %v, want %v", tt.err, got, tt.want)
		}
	}

	original := connect.NewError(connect.CodeUnavailable, stderrors.New("down"))
	if got := ToConnect(original); got != original {
		t.Errorf("ToConnect should pass through existing connect errors")
	}
}
