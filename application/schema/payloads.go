package schema

import (
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

// payload holds zero values of an operation's request body and response data.
type payload struct {
	request  any
	response any
}

var payloads = map[entities.Capability]map[string]payload{
	entities.CapabilitySQL: {
		wireformat.OpLoad:        {entities.SQLLoadRequest{}, entities.SQLLoadResponse{}},
		wireformat.OpExecute:     {entities.SQLQueryRequest{}, entities.ExecResult{}},
		wireformat.OpSelect:      {entities.SQLQueryRequest{}, []entities.Row{}},
		wireformat.OpClose:       {entities.SQLCloseRequest{}, nil},
		wireformat.OpConnections: {nil, []string{}},
	},
	entities.CapabilityStore: {
		wireformat.OpLoad:    {entities.StoreLoadRequest{}, entities.StoreLoadResponse{}},
		wireformat.OpSet:     {entities.StoreRequest{}, nil},
		wireformat.OpGet:     {entities.StoreRequest{}, entities.StoreGetResponse{}},
		wireformat.OpDelete:  {entities.StoreRequest{}, false},
		wireformat.OpClear:   {entities.StoreRequest{}, nil},
		wireformat.OpKeys:    {entities.StoreRequest{}, []string{}},
		wireformat.OpValues:  {entities.StoreRequest{}, []any{}},
		wireformat.OpEntries: {entities.StoreRequest{}, []entities.StoreEntry{}},
		wireformat.OpLength:  {entities.StoreRequest{}, 0},
		wireformat.OpSave:    {entities.StoreRequest{}, nil},
		wireformat.OpReload:  {entities.StoreRequest{}, nil},
		wireformat.OpList:    {nil, []string{}},
	},
	entities.CapabilityFS: {
		wireformat.OpReadText:    {entities.FSPathRequest{}, ""},
		wireformat.OpWriteText:   {entities.FSWriteTextRequest{}, nil},
		wireformat.OpReadBinary:  {entities.FSPathRequest{}, []byte{}},
		wireformat.OpWriteBinary: {entities.FSWriteBinaryRequest{}, nil},
		wireformat.OpRemoveFile:  {entities.FSPathRequest{}, nil},
		wireformat.OpCreateDir:   {entities.FSPathRequest{}, nil},
		wireformat.OpRemoveDir:   {entities.FSPathRequest{}, nil},
		wireformat.OpReadDir:     {entities.FSPathRequest{}, []entities.DirEntry{}},
		wireformat.OpMetadata:    {entities.FSPathRequest{}, entities.FileInfo{}},
		wireformat.OpExists:      {entities.FSPathRequest{}, false},
		wireformat.OpCopyFile:    {entities.FSCopyRequest{}, nil},
		wireformat.OpRenameFile:  {entities.FSCopyRequest{}, nil},
	},
	entities.CapabilityApps: {
		wireformat.OpList:       {nil, []entities.AppInfo{}},
		wireformat.OpGet:        {entities.AppIDRequest{}, entities.AppInfo{}},
		wireformat.OpRegister:   {entities.AppManifest{}, entities.AppInfo{}},
		wireformat.OpUpdate:     {entities.AppUpdateRequest{}, entities.AppInfo{}},
		wireformat.OpUnregister: {entities.AppIDRequest{}, nil},
		wireformat.OpActivate:   {entities.AppIDRequest{}, entities.AppInfo{}},
		wireformat.OpDeactivate: {entities.AppIDRequest{}, entities.AppInfo{}},
		wireformat.OpBulk:       {entities.BulkRequest{}, entities.BulkResult{}},
		wireformat.OpHealth:     {entities.AppIDRequest{}, entities.AppHealth{}},
		wireformat.OpStats:      {nil, entities.RegistryStats{}},
		wireformat.OpEvents:     {entities.EventQuery{}, []entities.AppEvent{}},
	},
}
