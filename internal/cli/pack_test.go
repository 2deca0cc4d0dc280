package cli

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/pack"
)

func TestParsePackItems(t *testing.T) {
	items, err := parsePackItems([]byte(`[{"width":50,"height":30,"label":"A"},{"width":20,"height":10}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Payload != "A" || items[1].Width != 20 {
		t.Errorf("items = %+v", items)
	}

	for _, bad := range []string{`[]`, `{"width":1}`, `nope`} {
		if _, err := parsePackItems([]byte(bad)); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parsePackItems(%s) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestFillRatio(t *testing.T) {
	res := pack.Result[string]{
		Placements: []pack.Placement[string]{
			{Item: pack.Item[string]{Width: 50, Height: 50}},
		},
		Height: 100,
	}
	if got := fillRatio(res, 100); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("fillRatio() = %v, want 0.25", got)
	}
	if got := fillRatio(pack.Result[string]{}, 100); got != 0 {
		t.Errorf("fillRatio(empty) = %v, want 0", got)
	}
}

func TestPackCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "items.json")
	items := `[{"width":50,"height":30,"label":"A"},{"width":50,"height":30,"label":"B"}]`
	if err := os.WriteFile(input, []byte(items), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, s := range pack.Strategies {
		t.Run(string(s), func(t *testing.T) {
			out, err := runCLI(t, "pack", input, "--strategy", string(s), "--width", "200")
			if err != nil {
				t.Fatalf("pack error: %v", err)
			}
			if got := strings.Count(out, `class="item"`); got != 2 {
				t.Errorf("items drawn = %d, want 2", got)
			}
		})
	}

	if _, err := runCLI(t, "pack", input, "--strategy", "spiral"); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("unknown strategy error = %v, want INVALID_STRATEGY", err)
	}
}
