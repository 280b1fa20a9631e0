package theme

import (
	"strings"
	"testing"

	"lcxl-sequence/lcxl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gpl = `GIMP Palette
Name: Mono
Columns: 2
# comment
  0   0   0	black
255 255 255	white
300 0 0	out of range
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	require.NoError(t, err)
	assert.Equal(t, "Mono", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}}
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{255, 255, 255}, p.Lookup(2))

	mid := p.Lookup(0.5)
	assert.Greater(t, mid[0], uint8(60))
	assert.Less(t, mid[0], uint8(200))

	assert.Equal(t, RGB{255, 255, 255}, p.Index(9))
	assert.Equal(t, RGB{0, 0, 0}, p.Index(-1))
	assert.Equal(t, "#ff00a0", RGB{255, 0, 160}.Hex())
}

func TestLED(t *testing.T) {
	th := New(nil)
	assert.Equal(t, th.Palette.Lookup(RoleMuted), th.LED(lcxl.Off))

	red := th.LED(lcxl.RedFull)
	assert.Greater(t, red[0], red[1])
	green := th.LED(lcxl.GreenFull)
	assert.Greater(t, green[1], green[0])

	low := th.LED(lcxl.GreenLow)
	assert.Less(t, low[1], green[1])
}
