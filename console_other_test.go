//go:build !windows

package conrec

import (
	"errors"
	"testing"
)

func TestGenericConsoleAdapterSurfacesErrPlatform(t *testing.T) {
	a, err := newConsoleAdapter()
	if err != nil {
		t.Fatalf("newConsoleAdapter: %v", err)
	}
	if _, _, err := a.WindowSize(); !errors.Is(err, ErrPlatform) {
		t.Errorf("expected ErrPlatform, got %v", err)
	}
	if _, err := a.Capture(); !errors.Is(err, ErrPlatform) {
		t.Errorf("expected ErrPlatform, got %v", err)
	}
	if err := a.EnableVTOutput(); !errors.Is(err, ErrPlatform) {
		t.Errorf("expected ErrPlatform, got %v", err)
	}
}
