// internal/expid/identity_test.go
package expid

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		rel        string
		expectErr  bool
		expectedID Identity
	}{
		{
			name:       "single app",
			rel:        "TDN-NoC/4/2x2/3/so",
			expectedID: Identity{Platform: "TDN-NoC", Processors: 4, X: 2, Y: 2, Slots: 3, Apps: []string{"so"}},
		},
		{
			name:       "apps are sorted",
			rel:        "TDN-NoC/6/1x6/1/so-cy-ra",
			expectedID: Identity{Platform: "TDN-NoC", Processors: 6, X: 1, Y: 6, Slots: 1, Apps: []string{"cy", "ra", "so"}},
		},
		{
			name:       "os separators",
			rel:        filepath.Join("TDN-NoC", "2", "1x2", "2", "cy-so"),
			expectedID: Identity{Platform: "TDN-NoC", Processors: 2, X: 1, Y: 2, Slots: 2, Apps: []string{"cy", "so"}},
		},
		{name: "error - too few components", rel: "TDN-NoC/4/2x2/3", expectErr: true},
		{name: "error - too many components", rel: "TDN-NoC/4/2x2/3/so/run-1", expectErr: true},
		{name: "error - processors not a number", rel: "TDN-NoC/four/2x2/3/so", expectErr: true},
		{name: "error - bad topology", rel: "TDN-NoC/4/2by2/3/so", expectErr: true},
		{name: "error - topology mismatch", rel: "TDN-NoC/4/1x3/3/so", expectErr: true},
		{name: "error - zero slots", rel: "TDN-NoC/4/2x2/0/so", expectErr: true},
		{name: "error - empty tag", rel: "TDN-NoC/4/2x2/1/so--cy", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.rel)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expectedID.Equal(id), "got %#v", id)
		})
	}
}

func TestRelPathRoundTrip(t *testing.T) {
	id := New(PlatformTDNNoC, 12, 3, 4, 7, []string{"so", "cy"})

	assert.Equal(t, "TDN-NoC/12/3x4/7/cy-so", id.RelPath())
	assert.Equal(t, "3x4", id.Topology())
	assert.Equal(t, "cy-so", id.AppCombo())

	back, err := Parse(id.RelPath())
	require.NoError(t, err)
	assert.True(t, id.Equal(back))

	assert.Equal(t, filepath.Join("/ws", "TDN-NoC", "12", "3x4", "7", "cy-so"), id.Dir("/ws"))
}

func TestNewDoesNotAliasInput(t *testing.T) {
	apps := []string{"so", "cy"}
	_ = New(PlatformTDNNoC, 1, 1, 1, 1, apps)
	assert.Equal(t, []string{"so", "cy"}, apps)
}

func TestAppTag(t *testing.T) {
	assert.Equal(t, "so", AppTag("a_sobel.xml"))
	assert.Equal(t, "cy", AppTag("sdfs/prefix_more_cycle.hsdf.xml"))
	assert.Equal(t, "ra", AppTag("rasta.xml"))
	assert.Equal(t, "x", AppTag("x.xml"))
}

func TestFilter(t *testing.T) {
	ids := []Identity{
		New(PlatformTDNNoC, 2, 1, 2, 1, []string{"so"}),
		New(PlatformTDNNoC, 3, 1, 3, 2, []string{"so", "cy"}),
		New(PlatformTDNNoC, 4, 2, 2, 1, []string{"cy"}),
	}

	t.Run("size filter matches topology literally", func(t *testing.T) {
		got := NewFilter("2,3", "", "").Apply(ids)
		assert.Empty(t, got, "bare sizes never equal an XxY topology")

		got = NewFilter("1x2,1x3", "", "").Apply(ids)
		require.Len(t, got, 2)
		assert.Equal(t, "1x2", got[0].Topology())
		assert.Equal(t, "1x3", got[1].Topology())
	})

	t.Run("slots filter", func(t *testing.T) {
		got := NewFilter("", "1", "").Apply(ids)
		require.Len(t, got, 2)
	})

	t.Run("apps filter accepts any tag order", func(t *testing.T) {
		got := NewFilter("", "", "so-cy").Apply(ids)
		require.Len(t, got, 1)
		assert.Equal(t, "cy-so", got[0].AppCombo())
	})

	t.Run("combined filters", func(t *testing.T) {
		got := NewFilter("2x2, 1x2", "1", "cy").Apply(ids)
		require.Len(t, got, 1)
		assert.Equal(t, 4, got[0].Processors)
	})

	t.Run("empty filter keeps everything", func(t *testing.T) {
		f := NewFilter("", " , ", "")
		assert.True(t, f.Empty())
		assert.Len(t, f.Apply(ids), 3)
	})
}

func TestDiscover(t *testing.T) {
	ws := t.TempDir()
	good := []Identity{
		New(PlatformTDNNoC, 2, 1, 2, 1, []string{"so"}),
		New(PlatformTDNNoC, 2, 1, 2, 2, []string{"cy", "so"}),
	}
	for _, id := range good {
		require.NoError(t, os.MkdirAll(id.Dir(ws), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(id.Dir(ws), ConfigFile), nil, 0o644))
	}
	stray := filepath.Join(ws, PlatformTDNNoC, "junk")
	require.NoError(t, os.MkdirAll(stray, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stray, ConfigFile), nil, 0o644))

	ids, err := Discover(context.Background(), ws, PlatformTDNNoC)

	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.True(t, good[0].Equal(ids[0]))
	assert.True(t, good[1].Equal(ids[1]))
}

func TestDiscover_MissingRoot(t *testing.T) {
	ids, err := Discover(context.Background(), t.TempDir(), PlatformTDNNoC)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
