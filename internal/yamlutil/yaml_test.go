package yamlutil_test

// Notes:
// - Encode error branch: go-yaml only fails on unencodable types
//   (channels, functions) that configuration structs never contain.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-htmlprint/internal/yamlutil"
)

type viewport struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale,omitempty"`
}

type variant struct {
	Name     string   `yaml:"name"`
	Media    string   `yaml:"media,omitempty"`
	Viewport viewport `yaml:"viewport"`
	Inline   []string `yaml:"inline,omitempty"`
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Strict Decoding
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		dest    any
		wantErr error
		wantSyn bool
	}{
		{
			name: "nested document",
			data: "name: rollup\nmedia: screen\nviewport:\n  width: 850\n  height: 2000\n  scale: 3\n",
			dest: &variant{},
		},
		{name: "empty document", data: "", dest: &variant{}, wantErr: yamlutil.ErrEmptyDocument},
		{name: "nil destination", data: "name: x", dest: nil, wantErr: yamlutil.ErrNilDestination},
		{name: "unknown key", data: "name: x\nmedai: print\n", dest: &variant{}, wantSyn: true},
		{name: "wrong type", data: "viewport:\n  width: wide\n", dest: &variant{}, wantSyn: true},
		{name: "broken syntax", data: "inline: [a, b", dest: &variant{}, wantSyn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict([]byte(tt.data), tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DecodeStrict() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantSyn:
				var syn *yamlutil.SyntaxError
				if !errors.As(err, &syn) {
					t.Fatalf("DecodeStrict() error = %v, want *SyntaxError", err)
				}
				if !strings.HasPrefix(err.Error(), "yamlutil: ") {
					t.Errorf("Error() = %q, want yamlutil prefix", err.Error())
				}
				if syn.Pretty(false) == "" {
					t.Error("Pretty() is empty")
				}
			default:
				if err != nil {
					t.Fatalf("DecodeStrict() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestDecodeStrict_Values(t *testing.T) {
	t.Parallel()

	var v variant
	data := "name: banner\nviewport: {width: 900, height: 1200}\ninline:\n  - assets/logos/a.svg\n  - assets/logos/b.svg\n"
	if err := yamlutil.DecodeStrict([]byte(data), &v); err != nil {
		t.Fatalf("DecodeStrict() error = %v", err)
	}
	if v.Name != "banner" || v.Viewport.Width != 900 || v.Viewport.Height != 1200 {
		t.Errorf("decoded = %+v", v)
	}
	if len(v.Inline) != 2 || v.Inline[1] != "assets/logos/b.svg" {
		t.Errorf("Inline = %v", v.Inline)
	}
}

func TestDecodeStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxDocumentSize))
	if err := yamlutil.DecodeStrict(data, &variant{}); !errors.Is(err, yamlutil.ErrDocumentTooLarge) {
		t.Errorf("error = %v, want ErrDocumentTooLarge", err)
	}
}

func TestReadStrict(t *testing.T) {
	t.Parallel()

	var v variant
	if err := yamlutil.ReadStrict(strings.NewReader("name: card\n"), &v); err != nil {
		t.Fatalf("ReadStrict() error = %v", err)
	}
	if v.Name != "card" {
		t.Errorf("Name = %q", v.Name)
	}

	big := strings.NewReader("name: " + strings.Repeat("y", 2*yamlutil.MaxDocumentSize))
	if err := yamlutil.ReadStrict(big, &v); !errors.Is(err, yamlutil.ErrDocumentTooLarge) {
		t.Errorf("oversized reader error = %v, want ErrDocumentTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestEncode - Encoding
// ---------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	t.Parallel()

	in := variant{Name: "square", Viewport: viewport{Width: 1080, Height: 1080}, Inline: []string{"logo.svg"}}
	out, err := yamlutil.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for _, want := range []string{"name: square", "width: 1080", "- logo.svg"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(string(out), "media") {
		t.Errorf("omitempty field encoded:\n%s", out)
	}

	var back variant
	if err := yamlutil.DecodeStrict(out, &back); err != nil {
		t.Fatalf("decoding encoded output: %v", err)
	}
	if back.Viewport != in.Viewport || back.Name != in.Name {
		t.Errorf("decoded = %+v, want %+v", back, in)
	}
}
