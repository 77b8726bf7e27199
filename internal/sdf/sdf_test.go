package sdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forkJoin = `<?xml version="1.0"?>
<sdf3 type="sdf">
  <applicationGraph name="fj">
    <sdf name="fj" type="FJ">
      <actor name="src" type="A"/>
      <actor name="left" type="B"/>
      <actor name="right" type="C"/>
      <actor name="sink" type="D"/>
      <channel name="c0" srcActor="src" dstActor="left"/>
      <channel name="c1" srcActor="src" dstActor="right"/>
      <channel name="c2" srcActor="left" dstActor="sink"/>
      <channel name="c3" srcActor="right" dstActor="sink"/>
      <channel name="c4" srcActor="src" dstActor="left"/>
    </sdf>
  </applicationGraph>
</sdf3>`

const chain = `<sdf3><sdf>
  <actor name="a"/><actor name="b"/>
  <channel name="ab" srcActor="a" dstActor="b"/>
</sdf></sdf3>`

func TestDecode(t *testing.T) {
	g, err := Decode(strings.NewReader(forkJoin))

	require.NoError(t, err)
	assert.Equal(t, []string{"src", "left", "right", "sink"}, g.Actors)
	require.Len(t, g.Channels, 5)
	assert.Equal(t, Channel{Name: "c1", Src: "src", Dst: "right"}, g.Channels[1])
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`<sdf><actor name="a">`))
	require.Error(t, err)
}

func TestMeasure(t *testing.T) {
	fj, err := Decode(strings.NewReader(forkJoin))
	require.NoError(t, err)
	ch, err := Decode(strings.NewReader(chain))
	require.NoError(t, err)

	m := Measure(fj, ch)

	assert.Equal(t, Metrics{Actors: 6, Channels: 6, Branches: 1, Reductions: 1}, m)
}

func TestMeasureFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a_forkjoin.xml")
	p2 := filepath.Join(dir, "b_chain.xml")
	require.NoError(t, os.WriteFile(p1, []byte(forkJoin), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte(chain), 0o644))

	m, err := MeasureFiles([]string{p2, p1})

	require.NoError(t, err)
	assert.Equal(t, 6, m.Channels)
	assert.Equal(t, 1, m.Branches)

	_, err = MeasureFiles([]string{filepath.Join(dir, "missing.xml")})
	require.Error(t, err)
}

func TestLoad_SetsPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x_chain.xml")
	require.NoError(t, os.WriteFile(p, []byte(chain), 0o644))

	g, err := Load(p)

	require.NoError(t, err)
	assert.Equal(t, p, g.Path)
	assert.Len(t, g.Channels, 1)
}
