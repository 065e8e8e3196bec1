package hosttest

import (
	"sort"
	"strings"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

// SeedRows makes select return rows for query.
func (b *Backend) SeedRows(query string, rows []entities.Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sqlRows[query] = rows
}

// ExecLog returns the statements executed so far.
func (b *Backend) ExecLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sqlExecLog...)
}

func (b *Backend) sqlOps() map[string]opSpec {
	return map[string]opSpec{
		wireformat.OpLoad:        {fn: typed(b.sqlLoad), record: true},
		wireformat.OpExecute:     {fn: typed(b.sqlExecute), record: true},
		wireformat.OpSelect:      {fn: typed(b.sqlSelect)},
		wireformat.OpClose:       {fn: typed(b.sqlClose)},
		wireformat.OpConnections: {fn: typed(b.sqlConnections)},
	}
}

func (b *Backend) sqlLoad(req entities.SQLLoadRequest) (entities.SQLLoadResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if req.ConnectionString == "" {
		return entities.SQLLoadResponse{}, badRequest("connection string is required")
	}
	for id, cs := range b.sqlConns {
		if cs == req.ConnectionString {
			return entities.SQLLoadResponse{ConnectionID: id}, nil
		}
	}
	id := b.nextID("conn")
	b.sqlConns[id] = req.ConnectionString
	return entities.SQLLoadResponse{ConnectionID: id}, nil
}

func (b *Backend) requireConn(id string) error {
	if _, ok := b.sqlConns[id]; !ok {
		return notFound("connection not found: " + id)
	}
	return nil
}

func (b *Backend) sqlExecute(req entities.SQLQueryRequest) (entities.ExecResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireConn(req.ConnectionID); err != nil {
		return entities.ExecResult{}, err
	}
	if strings.HasPrefix(strings.ToUpper(req.Query), "FAIL") {
		return entities.ExecResult{}, badRequest("syntax error near FAIL")
	}
	b.sqlExecLog = append(b.sqlExecLog, req.Query)
	b.lastInsert++
	return entities.ExecResult{RowsAffected: 1, LastInsertID: b.lastInsert}, nil
}

func (b *Backend) sqlSelect(req entities.SQLQueryRequest) ([]entities.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireConn(req.ConnectionID); err != nil {
		return nil, err
	}
	rows := b.sqlRows[req.Query]
	if rows == nil {
		rows = []entities.Row{}
	}
	return rows, nil
}

func (b *Backend) sqlClose(req entities.SQLCloseRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.requireConn(req.ConnectionID); err != nil {
		return nil, err
	}
	delete(b.sqlConns, req.ConnectionID)
	return nil, nil
}

func (b *Backend) sqlConnections(struct{}) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.sqlConns))
	for id := range b.sqlConns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
