package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/garnizeh/devconnect/internal/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"nil", nil, apperr.Unexpected},
		{"plain", errors.New("boom"), apperr.Unexpected},
		{"direct", apperr.New(apperr.NotFound, "missing"), apperr.NotFound},
		{"wrapped cause", apperr.Wrap(apperr.Conflict, "lost race", errors.New("boom")), apperr.Conflict},
		{"nested", fmt.Errorf("outer: %w", apperr.New(apperr.Forbidden, "nope")), apperr.Forbidden},
		{"deadline", context.DeadlineExceeded, apperr.Timeout},
		{"wrapped deadline", fmt.Errorf("storage: %w", context.DeadlineExceeded), apperr.Timeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := apperr.KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	e := apperr.Wrap(apperr.StorageUnavailable, "update failed", errors.New("disk io"))
	if e.Error() != "storage_unavailable: update failed: disk io" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !errors.Is(e, apperr.New(apperr.StorageUnavailable, "")) {
		t.Fatal("kind matching via errors.Is failed")
	}
	if errors.Is(e, apperr.New(apperr.NotFound, "")) {
		t.Fatal("mismatched kinds reported equal")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := apperr.Wrap(apperr.Timeout, "slow", cause)
	if !errors.Is(e, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}
