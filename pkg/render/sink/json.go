package sink

import (
	"encoding/json"

	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/group"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/matrix"
)

// JSONVersion is written into every layout export and checked by [ReadJSON].
const JSONVersion = "1"

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	source string
}

// WithSource records the hash of the catalog document the layout came from.
func WithSource(hash string) JSONOption { return func(r *jsonRenderer) { r.source = hash } }

type jsonOutput struct {
	Version     string             `json:"version"`
	VizType     string             `json:"viz_type"`
	Source      string             `json:"source,omitempty"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	ColumnWidth float64            `json:"column_width"`
	RowHeight   float64            `json:"row_height"`
	Rows        []float64          `json:"rows,omitempty"`
	Columns     []jsonColumn       `json:"columns"`
	Segments    []jsonSegment      `json:"segments"`
	Placements  []layout.Placement `json:"placements"`
	Divergences []group.Divergence `json:"divergences,omitempty"`
}

type jsonColumn struct {
	Column string           `json:"column"`
	Label  string           `json:"label"`
	Mode   layout.WidthMode `json:"mode"`
	Weight float64          `json:"weight"`
	Pixels float64          `json:"pixels"`
}

type jsonSegment struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RenderJSON exports the layout's geometry: every placement with its segment,
// kind and box, plus per-column widths and per-segment counts.
func RenderJSON(l *layout.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Version:     JSONVersion,
		VizType:     "matrix",
		Source:      r.source,
		Width:       l.Width,
		Height:      l.Height,
		ColumnWidth: l.ColumnWidth,
		RowHeight:   l.RowHeight,
		Rows:        l.Rows,
		Placements:  l.Placements,
		Divergences: l.Divergences,
	}
	if out.Placements == nil {
		out.Placements = []layout.Placement{}
	}

	pixels := layout.Distribute(l.Columns, l.Width)
	for i, c := range l.Columns {
		out.Columns = append(out.Columns, jsonColumn{
			Column: c.Column.String(),
			Label:  c.Column.Label(),
			Mode:   c.Mode,
			Weight: c.Weight,
			Pixels: pixels[i],
		})
	}
	for _, seg := range matrix.All() {
		out.Segments = append(out.Segments, jsonSegment{
			Key:   seg.Key(),
			Label: seg.Column.Label() + " / " + seg.Row.Label(),
			Count: l.Counts[seg.Key()],
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// ReadJSON parses output of [RenderJSON] back into a layout. Placements come
// back without their catalog nodes.
func ReadJSON(data []byte) (*layout.Layout, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layout")
	}
	if in.Version != JSONVersion {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unsupported layout version %q", in.Version)
	}
	if in.VizType != "matrix" {
		return nil, errors.New(errors.ErrCodeInvalidVizType, "layout has viz type %q, want matrix", in.VizType)
	}

	l := &layout.Layout{
		Width:       in.Width,
		Height:      in.Height,
		ColumnWidth: in.ColumnWidth,
		RowHeight:   in.RowHeight,
		Rows:        in.Rows,
		Placements:  in.Placements,
		Counts:      make(map[string]int, len(in.Segments)),
		Divergences: in.Divergences,
	}
	for _, c := range in.Columns {
		col, ok := parseColumn(c.Column)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "unknown column %q", c.Column)
		}
		l.Columns = append(l.Columns, layout.ColumnWidth{Column: col, Mode: c.Mode, Weight: c.Weight})
	}
	for _, s := range in.Segments {
		l.Counts[s.Key] = s.Count
	}
	return l, nil
}

func parseColumn(name string) (matrix.Column, bool) {
	for _, c := range matrix.Columns {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
