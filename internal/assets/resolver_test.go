package assets

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolver - Directory First, Embedded Fallback
// ---------------------------------------------------------------------------

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("no directory", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("expected no custom loader")
		}
	})

	t.Run("invalid directory", func(t *testing.T) {
		t.Parallel()

		_, err := NewResolver(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestResolver_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStyle(t, dir, "brochure", "/* custom brochure */")

	r, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name     string
		style    string
		contains string
		wantErr  error
	}{
		{name: "override wins", style: "brochure", contains: "custom brochure"},
		{name: "embedded fallback", style: "card", contains: ".card-page"},
		{name: "unknown everywhere", style: "poster", wantErr: ErrStyleNotFound},
		{name: "invalid name not retried", style: "a.b", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css, err := r.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", tt.style, err)
			}
			if !strings.Contains(css, tt.contains) {
				t.Errorf("LoadStyle(%q) = %q, want it to contain %q", tt.style, css, tt.contains)
			}
		})
	}
}
