package dryrun

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "hello", stripANSI("\x1b[31;1mhello\x1b[0m"))
	assert.Equal(t, "plain", stripANSI("plain"))
}

func TestParseSegments_PlainLine(t *testing.T) {
	segs := parseSegments("no color here")
	require.Len(t, segs, 1)
	assert.Equal(t, "no color here", segs[0].text)
}

func TestParseSegments_ColorSwitch(t *testing.T) {
	segs := parseSegments("\x1b[31mred\x1b[0mplain")
	require.Len(t, segs, 2)
	assert.Equal(t, "red", segs[0].text)
	assert.Equal(t, sgrColor["31"], segs[0].color)
	assert.Equal(t, "plain", segs[1].text)
}

func TestNextColor(t *testing.T) {
	const def = "#d3d7cf"
	assert.Equal(t, sgrColor["32"], nextColor("32", "", def))
	assert.Equal(t, def, nextColor("0", sgrColor["32"], def))
	assert.Equal(t, def, nextColor("", sgrColor["32"], def))
}

func TestRenderANSI_ProducesSVG(t *testing.T) {
	out := RenderANSI("\x1b[32mreconcile ok\x1b[0m\nsecond line")
	assert.True(t, strings.Contains(out, "<svg"))
	assert.True(t, strings.Contains(out, "reconcile ok"))
	assert.True(t, strings.Contains(out, "second line"))
}
