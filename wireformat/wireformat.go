// Package wireformat defines the wire contract shared by every backend: the REST paths
// of the remote bridge, the native function names, and the native reply shape.
// Paths are versionless and must stay stable; a new operation adds exactly one new
// constant and one table row, and never changes an existing path.
package wireformat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/reglet-dev/hostcap/domain/entities"
)

// APIPrefix roots every remote-bridge path.
const APIPrefix = "/api"

// PathHealth is the liveness endpoint. Any 2xx response means healthy.
const PathHealth = APIPrefix + "/health"

// Operation names. Proxy methods and native function suffixes use the same names.
const (
	OpLoad        = "load"
	OpExecute     = "execute"
	OpSelect      = "select"
	OpClose       = "close"
	OpConnections = "connections"

	OpSet     = "set"
	OpGet     = "get"
	OpDelete  = "delete"
	OpClear   = "clear"
	OpKeys    = "keys"
	OpValues  = "values"
	OpEntries = "entries"
	OpLength  = "length"
	OpSave    = "save"
	OpReload  = "reload"
	OpList    = "list"

	OpReadText    = "read-text"
	OpWriteText   = "write-text"
	OpReadBinary  = "read-binary"
	OpWriteBinary = "write-binary"
	OpRemoveFile  = "remove-file"
	OpCreateDir   = "create-dir"
	OpRemoveDir   = "remove-dir"
	OpReadDir     = "read-dir"
	OpMetadata    = "metadata"
	OpExists      = "exists"
	OpCopyFile    = "copy-file"
	OpRenameFile  = "rename-file"

	OpRegister   = "register"
	OpUpdate     = "update"
	OpUnregister = "unregister"
	OpActivate   = "activate"
	OpDeactivate = "deactivate"
	OpBulk       = "bulk"
	OpHealth     = "health"
	OpStats      = "stats"
	OpEvents     = "events"
)

// Relational-data paths.
const (
	PathSQLLoad        = APIPrefix + "/sql/load"
	PathSQLExecute     = APIPrefix + "/sql/execute"
	PathSQLSelect      = APIPrefix + "/sql/select"
	PathSQLClose       = APIPrefix + "/sql/close"
	PathSQLConnections = APIPrefix + "/sql/connections"
)

// Key-value-store paths.
const (
	PathStoreLoad    = APIPrefix + "/store/load"
	PathStoreSet     = APIPrefix + "/store/set"
	PathStoreGet     = APIPrefix + "/store/get"
	PathStoreDelete  = APIPrefix + "/store/delete"
	PathStoreClear   = APIPrefix + "/store/clear"
	PathStoreKeys    = APIPrefix + "/store/keys"
	PathStoreValues  = APIPrefix + "/store/values"
	PathStoreEntries = APIPrefix + "/store/entries"
	PathStoreLength  = APIPrefix + "/store/length"
	PathStoreSave    = APIPrefix + "/store/save"
	PathStoreReload  = APIPrefix + "/store/reload"
	PathStoreList    = APIPrefix + "/store/list"
)

// Filesystem paths.
const (
	PathFSReadText    = APIPrefix + "/fs/read-text"
	PathFSWriteText   = APIPrefix + "/fs/write-text"
	PathFSReadBinary  = APIPrefix + "/fs/read-binary"
	PathFSWriteBinary = APIPrefix + "/fs/write-binary"
	PathFSRemoveFile  = APIPrefix + "/fs/remove-file"
	PathFSCreateDir   = APIPrefix + "/fs/create-dir"
	PathFSRemoveDir   = APIPrefix + "/fs/remove-dir"
	PathFSReadDir     = APIPrefix + "/fs/read-dir"
	PathFSMetadata    = APIPrefix + "/fs/metadata"
	PathFSExists      = APIPrefix + "/fs/exists"
	PathFSCopyFile    = APIPrefix + "/fs/copy-file"
	PathFSRenameFile  = APIPrefix + "/fs/rename-file"
)

// Application-registry paths.
const (
	PathAppsList       = APIPrefix + "/apps/list"
	PathAppsGet        = APIPrefix + "/apps/get"
	PathAppsRegister   = APIPrefix + "/apps/register"
	PathAppsUpdate     = APIPrefix + "/apps/update"
	PathAppsUnregister = APIPrefix + "/apps/unregister"
	PathAppsActivate   = APIPrefix + "/apps/activate"
	PathAppsDeactivate = APIPrefix + "/apps/deactivate"
	PathAppsBulk       = APIPrefix + "/apps/bulk"
	PathAppsHealth     = APIPrefix + "/apps/health"
	PathAppsStats      = APIPrefix + "/apps/stats"
	PathAppsEvents     = APIPrefix + "/apps/events"
)

// Route binds one capability operation to its HTTP method and path.
type Route struct {
	Capability entities.Capability
	Operation  string
	Method     string
	Path       string
}

var routes = map[entities.Capability][]Route{
	entities.CapabilitySQL: {
		{entities.CapabilitySQL, OpLoad, http.MethodPost, PathSQLLoad},
		{entities.CapabilitySQL, OpExecute, http.MethodPost, PathSQLExecute},
		{entities.CapabilitySQL, OpSelect, http.MethodPost, PathSQLSelect},
		{entities.CapabilitySQL, OpClose, http.MethodPost, PathSQLClose},
		{entities.CapabilitySQL, OpConnections, http.MethodGet, PathSQLConnections},
	},
	entities.CapabilityStore: {
		{entities.CapabilityStore, OpLoad, http.MethodPost, PathStoreLoad},
		{entities.CapabilityStore, OpSet, http.MethodPost, PathStoreSet},
		{entities.CapabilityStore, OpGet, http.MethodPost, PathStoreGet},
		{entities.CapabilityStore, OpDelete, http.MethodPost, PathStoreDelete},
		{entities.CapabilityStore, OpClear, http.MethodPost, PathStoreClear},
		{entities.CapabilityStore, OpKeys, http.MethodPost, PathStoreKeys},
		{entities.CapabilityStore, OpValues, http.MethodPost, PathStoreValues},
		{entities.CapabilityStore, OpEntries, http.MethodPost, PathStoreEntries},
		{entities.CapabilityStore, OpLength, http.MethodPost, PathStoreLength},
		{entities.CapabilityStore, OpSave, http.MethodPost, PathStoreSave},
		{entities.CapabilityStore, OpReload, http.MethodPost, PathStoreReload},
		{entities.CapabilityStore, OpList, http.MethodGet, PathStoreList},
	},
	entities.CapabilityFS: {
		{entities.CapabilityFS, OpReadText, http.MethodPost, PathFSReadText},
		{entities.CapabilityFS, OpWriteText, http.MethodPost, PathFSWriteText},
		{entities.CapabilityFS, OpReadBinary, http.MethodPost, PathFSReadBinary},
		{entities.CapabilityFS, OpWriteBinary, http.MethodPost, PathFSWriteBinary},
		{entities.CapabilityFS, OpRemoveFile, http.MethodPost, PathFSRemoveFile},
		{entities.CapabilityFS, OpCreateDir, http.MethodPost, PathFSCreateDir},
		{entities.CapabilityFS, OpRemoveDir, http.MethodPost, PathFSRemoveDir},
		{entities.CapabilityFS, OpReadDir, http.MethodPost, PathFSReadDir},
		{entities.CapabilityFS, OpMetadata, http.MethodPost, PathFSMetadata},
		{entities.CapabilityFS, OpExists, http.MethodPost, PathFSExists},
		{entities.CapabilityFS, OpCopyFile, http.MethodPost, PathFSCopyFile},
		{entities.CapabilityFS, OpRenameFile, http.MethodPost, PathFSRenameFile},
	},
	entities.CapabilityApps: {
		{entities.CapabilityApps, OpList, http.MethodGet, PathAppsList},
		{entities.CapabilityApps, OpGet, http.MethodPost, PathAppsGet},
		{entities.CapabilityApps, OpRegister, http.MethodPost, PathAppsRegister},
		{entities.CapabilityApps, OpUpdate, http.MethodPost, PathAppsUpdate},
		{entities.CapabilityApps, OpUnregister, http.MethodPost, PathAppsUnregister},
		{entities.CapabilityApps, OpActivate, http.MethodPost, PathAppsActivate},
		{entities.CapabilityApps, OpDeactivate, http.MethodPost, PathAppsDeactivate},
		{entities.CapabilityApps, OpBulk, http.MethodPost, PathAppsBulk},
		{entities.CapabilityApps, OpHealth, http.MethodPost, PathAppsHealth},
		{entities.CapabilityApps, OpStats, http.MethodGet, PathAppsStats},
		{entities.CapabilityApps, OpEvents, http.MethodPost, PathAppsEvents},
	},
}

// Lookup returns the route of one capability operation.
func Lookup(capability entities.Capability, op string) (Route, error) {
	for _, r := range routes[capability] {
		if r.Operation == op {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("wireformat: no route for %s.%s", capability, op)
}

// Path returns the REST path of one capability operation.
func Path(capability entities.Capability, op string) (string, error) {
	r, err := Lookup(capability, op)
	if err != nil {
		return "", err
	}
	return r.Path, nil
}

// Operations returns the operation names of a capability in declaration order.
func Operations(capability entities.Capability) []string {
	rs := routes[capability]
	ops := make([]string, 0, len(rs))
	for _, r := range rs {
		ops = append(ops, r.Operation)
	}
	return ops
}

// Routes returns every route, ordered by capability then declaration order.
func Routes() []Route {
	var out []Route
	for _, c := range entities.AllCapabilities() {
		out = append(out, routes[c]...)
	}
	return out
}

// NativeFunction returns the native host function name of an operation,
// e.g. "fs.read-text".
func NativeFunction(capability entities.Capability, op string) string {
	return string(capability) + "." + op
}

// NativeFunctions returns every native function name of a capability, sorted.
func NativeFunctions(capability entities.Capability) []string {
	ops := Operations(capability)
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, NativeFunction(capability, op))
	}
	sort.Strings(names)
	return names
}

// NativeReply is the reply of a native host function: either Result, or an error
// in the hostfuncs.ErrorResponse shape.
type NativeReply struct {
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    int             `json:"code,omitempty"`
}

// Failed reports whether the reply carries an error.
func (r NativeReply) Failed() bool {
	return r.Error != ""
}
