package hosttest

import (
	"sort"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

// SetStatus forces an application's status, as a host would after the app crashes
// or finishes starting.
func (b *Backend) SetStatus(appID string, status entities.AppStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if app, ok := b.apps[appID]; ok {
		app.Status = status
		app.UpdatedAt = b.clock.Now().UTC()
	}
}

func (b *Backend) appsOps() map[string]opSpec {
	return map[string]opSpec{
		wireformat.OpList:       {fn: typed(b.appsList), record: true},
		wireformat.OpGet:        {fn: typed(b.appsGet), record: true},
		wireformat.OpRegister:   {fn: typed(b.appsRegister), record: true},
		wireformat.OpUpdate:     {fn: typed(b.appsUpdate), record: true},
		wireformat.OpUnregister: {fn: typed(b.appsUnregister)},
		wireformat.OpActivate:   {fn: typed(b.appsActivate), record: true},
		wireformat.OpDeactivate: {fn: typed(b.appsDeactivate), record: true},
		wireformat.OpBulk:       {fn: typed(b.appsBulk), record: true},
		wireformat.OpHealth:     {fn: typed(b.appsHealth), record: true},
		wireformat.OpStats:      {fn: typed(b.appsStats), record: true},
		wireformat.OpEvents:     {fn: typed(b.appsEvents), record: true},
	}
}

func (b *Backend) record(appID, kind, msg string) {
	b.events = append(b.events, entities.AppEvent{
		ID:        b.nextID("evt"),
		AppID:     appID,
		Type:      kind,
		Message:   msg,
		Timestamp: b.clock.Now().UTC(),
	})
}

func (b *Backend) app(id string) (*entities.AppInfo, error) {
	app, ok := b.apps[id]
	if !ok {
		return nil, notFound("app not found: " + id)
	}
	return app, nil
}

func (b *Backend) appsList(struct{}) ([]entities.AppInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.AppInfo, 0, len(b.apps))
	for _, app := range b.apps {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) appsGet(req entities.AppIDRequest) (entities.AppInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app, err := b.app(req.AppID)
	if err != nil {
		return entities.AppInfo{}, err
	}
	return *app, nil
}

func (b *Backend) appsRegister(m entities.AppManifest) (entities.AppInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.ID == "" || m.Name == "" {
		return entities.AppInfo{}, badRequest("app_id and name are required")
	}
	if _, ok := b.apps[m.ID]; ok {
		return entities.AppInfo{}, conflict("app already registered: " + m.ID)
	}
	now := b.clock.Now().UTC()
	app := &entities.AppInfo{
		ID:           m.ID,
		Name:         m.Name,
		Version:      m.Version,
		Entry:        m.Entry,
		Metadata:     m.Metadata,
		Status:       entities.AppStatusInstalled,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	b.apps[m.ID] = app
	b.record(m.ID, "registered", "")
	return *app, nil
}

func (b *Backend) appsUpdate(req entities.AppUpdateRequest) (entities.AppInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app, err := b.app(req.AppID)
	if err != nil {
		return entities.AppInfo{}, err
	}
	if req.Patch.Name != nil {
		app.Name = *req.Patch.Name
	}
	if req.Patch.Version != nil {
		app.Version = *req.Patch.Version
	}
	if req.Patch.Entry != nil {
		app.Entry = *req.Patch.Entry
	}
	if req.Patch.Metadata != nil {
		app.Metadata = req.Patch.Metadata
	}
	app.UpdatedAt = b.clock.Now().UTC()
	b.record(app.ID, "updated", "")
	return *app, nil
}

func (b *Backend) unregister(id string) error {
	if _, err := b.app(id); err != nil {
		return err
	}
	delete(b.apps, id)
	b.record(id, "unregistered", "")
	return nil
}

func (b *Backend) setStatus(id string, status entities.AppStatus, kind string) (*entities.AppInfo, error) {
	app, err := b.app(id)
	if err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = b.clock.Now().UTC()
	b.record(id, kind, "")
	return app, nil
}

func (b *Backend) appsUnregister(req entities.AppIDRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return nil, b.unregister(req.AppID)
}

func (b *Backend) appsActivate(req entities.AppIDRequest) (entities.AppInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app, err := b.setStatus(req.AppID, entities.AppStatusActive, "activated")
	if err != nil {
		return entities.AppInfo{}, err
	}
	return *app, nil
}

func (b *Backend) appsDeactivate(req entities.AppIDRequest) (entities.AppInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app, err := b.setStatus(req.AppID, entities.AppStatusInactive, "deactivated")
	if err != nil {
		return entities.AppInfo{}, err
	}
	return *app, nil
}

func (b *Backend) appsBulk(req entities.BulkRequest) (entities.BulkResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := entities.BulkResult{Succeeded: []string{}}
	for _, id := range req.AppIDs {
		var err error
		switch req.Action {
		case entities.BulkActivate:
			_, err = b.setStatus(id, entities.AppStatusActive, "activated")
		case entities.BulkDeactivate:
			_, err = b.setStatus(id, entities.AppStatusInactive, "deactivated")
		case entities.BulkUnregister:
			err = b.unregister(id)
		default:
			return entities.BulkResult{}, badRequest("unknown bulk action: " + string(req.Action))
		}
		if err != nil {
			if res.Failed == nil {
				res.Failed = map[string]string{}
			}
			res.Failed[id] = err.Error()
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	return res, nil
}

func (b *Backend) appsHealth(req entities.AppIDRequest) (entities.AppHealth, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app, err := b.app(req.AppID)
	if err != nil {
		return entities.AppHealth{}, err
	}
	h := entities.AppHealth{
		AppID:     app.ID,
		Status:    app.Status,
		Healthy:   app.Status == entities.AppStatusActive,
		CheckedAt: b.clock.Now().UTC(),
	}
	if !h.Healthy {
		h.Message = "app is " + string(app.Status)
	}
	return h, nil
}

func (b *Backend) appsStats(struct{}) (entities.RegistryStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var s entities.RegistryStats
	for _, app := range b.apps {
		s.Total++
		switch app.Status {
		case entities.AppStatusActive:
			s.Active++
		case entities.AppStatusInactive, entities.AppStatusInstalled:
			s.Inactive++
		case entities.AppStatusError:
			s.Errored++
		}
	}
	return s, nil
}

func (b *Backend) appsEvents(q entities.EventQuery) ([]entities.AppEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []entities.AppEvent{}
	for _, e := range b.events {
		if q.AppID == "" || e.AppID == q.AppID {
			out = append(out, e)
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}
