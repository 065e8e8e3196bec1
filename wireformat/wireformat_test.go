package wireformat

import (
	"net/http"
	"strings"
	"testing"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The paths are the bit-exact contract the bridge service implements; this table
// pins them so an accidental edit fails loudly.
func TestPaths_AreStable(t *testing.T) {
	want := map[string]string{
		"sql.load":        "POST /api/sql/load",
		"sql.execute":     "POST /api/sql/execute",
		"sql.select":      "POST /api/sql/select",
		"sql.close":       "POST /api/sql/close",
		"sql.connections": "GET /api/sql/connections",
		"store.load":      "POST /api/store/load",
		"store.set":       "POST /api/store/set",
		"store.get":       "POST /api/store/get",
		"store.delete":    "POST /api/store/delete",
		"store.clear":     "POST /api/store/clear",
		"store.keys":      "POST /api/store/keys",
		"store.values":    "POST /api/store/values",
		"store.entries":   "POST /api/store/entries",
		"store.length":    "POST /api/store/length",
		"store.save":      "POST /api/store/save",
		"store.reload":    "POST /api/store/reload",
		"store.list":      "GET /api/store/list",
		"fs.read-text":    "POST /api/fs/read-text",
		"fs.write-text":   "POST /api/fs/write-text",
		"fs.read-binary":  "POST /api/fs/read-binary",
		"fs.write-binary": "POST /api/fs/write-binary",
		"fs.remove-file":  "POST /api/fs/remove-file",
		"fs.create-dir":   "POST /api/fs/create-dir",
		"fs.remove-dir":   "POST /api/fs/remove-dir",
		"fs.read-dir":     "POST /api/fs/read-dir",
		"fs.metadata":     "POST /api/fs/metadata",
		"fs.exists":       "POST /api/fs/exists",
		"fs.copy-file":    "POST /api/fs/copy-file",
		"fs.rename-file":  "POST /api/fs/rename-file",
		"apps.list":       "GET /api/apps/list",
		"apps.get":        "POST /api/apps/get",
		"apps.register":   "POST /api/apps/register",
		"apps.update":     "POST /api/apps/update",
		"apps.unregister": "POST /api/apps/unregister",
		"apps.activate":   "POST /api/apps/activate",
		"apps.deactivate": "POST /api/apps/deactivate",
		"apps.bulk":       "POST /api/apps/bulk",
		"apps.health":     "POST /api/apps/health",
		"apps.stats":      "GET /api/apps/stats",
		"apps.events":     "POST /api/apps/events",
	}

	got := make(map[string]string)
	for _, r := range Routes() {
		got[NativeFunction(r.Capability, r.Operation)] = r.Method + " " + r.Path
	}
	assert.Equal(t, want, got)
}

func TestRoutes_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range Routes() {
		assert.False(t, seen[r.Path], "duplicate path %s", r.Path)
		seen[r.Path] = true
		assert.True(t, strings.HasPrefix(r.Path, APIPrefix+"/"+string(r.Capability)+"/"), r.Path)
		assert.Contains(t, []string{http.MethodGet, http.MethodPost}, r.Method)
	}
}

func TestPath(t *testing.T) {
	p, err := Path(entities.CapabilityStore, OpSet)
	require.NoError(t, err)
	assert.Equal(t, "/api/store/set", p)

	_, err = Path(entities.CapabilityStore, OpReadText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.read-text")
}

func TestOperations(t *testing.T) {
	assert.Equal(t,
		[]string{OpLoad, OpExecute, OpSelect, OpClose, OpConnections},
		Operations(entities.CapabilitySQL))
	assert.Empty(t, Operations(entities.Capability("queue")))
}

func TestNativeFunctions(t *testing.T) {
	names := NativeFunctions(entities.CapabilitySQL)
	assert.Equal(t, []string{"sql.close", "sql.connections", "sql.execute", "sql.load", "sql.select"}, names)
}

func TestNativeReply_Failed(t *testing.T) {
	assert.False(t, NativeReply{Result: []byte(`1`)}.Failed())
	assert.True(t, NativeReply{Error: "NOT_FOUND", Message: "missing"}.Failed())
}
