package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/codematrix/pkg/pack"
)

var packFills = []string{"#dbeafe", "#fde68a", "#bbf7d0", "#e9d5ff", "#fecaca", "#e5e7eb"}

// RenderPacking draws a packer result: the container outline, each item
// numbered by input index and labelled with its payload, and a strip
// marking the padding. It is a debugging aid for the packers.
func RenderPacking(res pack.Result[string], width float64, strategy pack.Strategy) []byte {
	const top = 28.0
	h := max(res.Height, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="Helvetica, Arial, sans-serif">`+"\n",
		width+2*margin, h+top+margin, width+2*margin, h+top+margin)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", width+2*margin, h+top+margin)
	fmt.Fprintf(&buf, `  <text x="%.1f" y="18" font-size="13" fill="#333">%s · %d items · %.0fx%.0f</text>`+"\n",
		margin, escapeXML(string(strategy)), len(res.Placements), width, res.Height)
	fmt.Fprintf(&buf, `  <rect class="container" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#fafafa" stroke="#999" stroke-dasharray="4 2"/>`+"\n",
		margin, top, width, h)

	for _, p := range res.Placements {
		x, y := margin+p.X, top+p.Y
		label := p.Payload
		if label == "" {
			label = strconv.Itoa(p.Index)
		}
		size := fontSize(p.Width, p.Height, label)
		fmt.Fprintf(&buf, `  <g class="item" data-index="%d"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#555"/>`,
			p.Index, x, y, p.Width, p.Height, packFills[p.Index%len(packFills)])
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text></g>`+"\n",
			x+p.Width/2, y+p.Height/2, size, escapeXML(truncateLabel(label, p.Width, size)))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
