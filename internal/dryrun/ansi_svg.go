package dryrun

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// ansiSGR matches one or more SGR parameters inside a CSI escape
// sequence, e.g. "\x1b[31;1m". fatih/color (used by internal/ruleset's
// differ) only ever emits plain foreground-color and reset codes, so
// that is all this renders; anything else is dropped silently rather
// than misrendered.
var ansiSGR = regexp.MustCompile("\x1b\\[([0-9;]*)m")

var sgrColor = map[string]string{
	"30": "#000000", "31": "#cc0000", "32": "#4e9a06", "33": "#c4a000",
	"34": "#3465a4", "35": "#75507b", "36": "#06989a", "37": "#d3d7cf",
	"90": "#555753", "91": "#ef2929", "92": "#8ae234", "93": "#fce94f",
	"94": "#729fcf", "95": "#ad7fa8", "96": "#34e2e2", "97": "#eeeeec",
}

const (
	charWidth  = 8
	lineHeight = 16
	fontSize   = 13
)

type segment struct {
	text  string
	color string
}

// RenderANSI renders combined stdout+stderr from the dry-run
// subprocess (colorized by fatih/color, the same library
// internal/ruleset/differ.go uses) into a monospace SVG snapshot
// (§4.8 step 3). Lines are rendered top to bottom in a dark terminal
// palette; the canvas grows to fit the longest line and full line
// count.
func RenderANSI(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	width := 80
	for _, l := range lines {
		if w := len(stripANSI(l)); w > width {
			width = w
		}
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvasWidth := width*charWidth + 20
	canvasHeight := len(lines)*lineHeight + 20
	canvas.Start(canvasWidth, canvasHeight)
	canvas.Rect(0, 0, canvasWidth, canvasHeight, "fill:#1e1e1e")

	for i, line := range lines {
		y := (i+1)*lineHeight + 4
		x := 10
		for _, seg := range parseSegments(line) {
			if seg.text == "" {
				continue
			}
			style := fmt.Sprintf("font-family:monospace;font-size:%dpx;fill:%s", fontSize, seg.color)
			canvas.Text(x, y, html.EscapeString(seg.text), style)
			x += len(seg.text) * charWidth
		}
	}
	canvas.End()
	return buf.String()
}

// parseSegments splits one line into color-tagged runs by scanning its
// SGR escapes in order; code "0" (or no explicit color) resets to the
// default foreground.
func parseSegments(line string) []segment {
	const defaultColor = "#d3d7cf"
	var segments []segment
	current := defaultColor

	matches := ansiSGR.FindAllStringSubmatchIndex(line, -1)
	pos := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > pos {
			segments = append(segments, segment{text: line[pos:start], color: current})
		}
		current = nextColor(line[m[2]:m[3]], current, defaultColor)
		pos = end
	}
	if pos < len(line) {
		segments = append(segments, segment{text: line[pos:], color: current})
	}
	return segments
}

func nextColor(params, current, defaultColor string) string {
	if params == "" {
		return defaultColor
	}
	color := current
	for _, p := range strings.Split(params, ";") {
		if p == "0" || p == "" {
			color = defaultColor
			continue
		}
		if c, ok := sgrColor[p]; ok {
			color = c
		}
		if _, err := strconv.Atoi(p); err != nil {
			color = defaultColor
		}
	}
	return color
}

func stripANSI(s string) string {
	return ansiSGR.ReplaceAllString(s, "")
}
