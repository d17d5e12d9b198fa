package notes

import (
	"testing"
	"time"
)

// recordingAdapter captures every Save so tests can assert persistence
// triggers without touching disk.
type recordingAdapter struct {
	loadResult []Note
	saved      [][]Note
	failSave   bool
}

func (a *recordingAdapter) Load() []Note {
	return a.loadResult
}

func (a *recordingAdapter) Save(collection []Note) bool {
	a.saved = append(a.saved, collection)
	return !a.failSave
}

func (a *recordingAdapter) Clear() {}

type staticIDProvider struct {
	ids   []string
	index int
}

func (p *staticIDProvider) NewID() string {
	if p.index >= len(p.ids) {
		return "id-exhausted"
	}
	id := p.ids[p.index]
	p.index++
	return id
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestStore(t *testing.T, adapter *recordingAdapter, clock func() time.Time, ids ...string) *Store {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{"note-1", "note-2", "note-3"}
	}
	store, err := NewStore(StoreConfig{
		Adapter:    adapter,
		Clock:      clock,
		IDProvider: &staticIDProvider{ids: ids},
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	return store
}

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}
