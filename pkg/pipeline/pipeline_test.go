package pipeline

import (
	"testing"

	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/layout"
)

func TestValidateForLoad(t *testing.T) {
	var o Options
	if err := o.ValidateForLoad(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty document error = %v, want INVALID_INPUT", err)
	}

	o = Options{Document: []byte(`{}`)}
	if err := o.ValidateForLoad(); err != nil {
		t.Fatalf("ValidateForLoad() error: %v", err)
	}
	if o.Source != "input" || o.Logger == nil {
		t.Errorf("defaults not applied: source=%q logger=%v", o.Source, o.Logger)
	}
}

func TestValidateForLayoutDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateForLayout(); err != nil {
		t.Fatalf("ValidateForLayout() error: %v", err)
	}
	if o.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", o.Layout)
	}
	if o.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", o.VizType, DefaultVizType)
	}
}

func TestValidateForRender(t *testing.T) {
	bad := layout.DefaultConfig()
	bad.ColumnWidth = 50

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"nodelink", Options{VizType: "nodelink", Formats: []string{"svg", "json"}}, ""},
		{"bad viz", Options{VizType: "sankey"}, errors.ErrCodeInvalidVizType},
		{"bad format", Options{Formats: []string{"svg", "gif"}}, errors.ErrCodeInvalidFormat},
		{"case sensitive", Options{Formats: []string{"SVG"}}, errors.ErrCodeInvalidFormat},
		{"bad layout", Options{Layout: bad}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateForRender() error: %v", err)
				}
				if len(tt.opts.Formats) == 0 {
					t.Error("Formats not defaulted")
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForRender() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	o := Options{Document: []byte(`{}`)}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	o.Formats = []string{"nope"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call re-validated: %v", err)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{}
	a.SetLayoutDefaults()
	b := a
	b.Layout.Padding = 12

	ka, err := a.LayoutKeyOpts()
	if err != nil {
		t.Fatal(err)
	}
	kb, _ := b.LayoutKeyOpts()
	if ka.ConfigHash == kb.ConfigHash {
		t.Error("different layout configs share a config hash")
	}
	again, _ := a.LayoutKeyOpts()
	if ka != again {
		t.Error("LayoutKeyOpts not stable")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{VizType: "matrix", ShowEdges: true}
	k := o.ArtifactKeyOpts("png")
	if k.Format != "png" || k.VizType != "matrix" || !k.ShowEdges || k.Detailed {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
}

func TestIsNodelink(t *testing.T) {
	if (&Options{}).IsNodelink() {
		t.Error("empty viz type is not nodelink")
	}
	if !(&Options{VizType: "nodelink"}).IsNodelink() {
		t.Error("nodelink not detected")
	}
}
