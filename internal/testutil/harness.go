package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// PlatformXML is a minimal TDN NoC platform descriptor.
const PlatformXML = `<?xml version="1.0"?>
<platform name="template">
  <processor model="ARM" number="1">
    <mode name="default" cycle="1"/>
  </processor>
  <TDN_NoC name="tmpl" topology="mesh" cycles="1" maxCyclesPerProc="1" x-dimension="1" y-dimension="1" flitSize="128"/>
</platform>
`

// ConfigCfg references its own template location, as real templates do.
const ConfigCfg = `inputs=template/sdfs/
inputs=template/xmls/
output=template/out/
`

// AppXML builds an application descriptor chaining n+1 actors with n channels.
func AppXML(name string, channels int) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0"?>` + "\n<sdf3><applicationGraph name=\"" + name + "\"><sdf name=\"" + name + "\">\n")
	for i := 0; i <= channels; i++ {
		b.WriteString("  <actor name=\"" + name + "_a" + strconv.Itoa(i) + "\"/>\n")
	}
	for i := 0; i < channels; i++ {
		b.WriteString("  <channel name=\"" + name + "_c" + strconv.Itoa(i) + "\" srcActor=\"" + name + "_a" + strconv.Itoa(i) + "\" dstActor=\"" + name + "_a" + strconv.Itoa(i+1) + "\"/>\n")
	}
	b.WriteString("</sdf></applicationGraph></sdf3>\n")
	return b.String()
}

// WriteFiles writes relative path -> content pairs under root, creating
// parent directories as needed.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(files[name]), 0o644))
	}
}

// NewWorkspace creates a temporary workspace holding a "template" directory
// with the given application descriptors (file name -> XML), a platform
// descriptor and a config file. It returns the workspace root.
func NewWorkspace(t *testing.T, apps map[string]string) string {
	t.Helper()

	ws := t.TempDir()
	files := map[string]string{
		"template/xmls/platform.xml": PlatformXML,
		"template/config.cfg":        ConfigCfg,
	}
	for name, content := range apps {
		files["template/sdfs/"+name] = content
	}
	WriteFiles(t, ws, files)
	return ws
}
