package notes

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	errMissingAdapter = errors.New("notes: persistence adapter is required")
	noOpLogger        = zap.NewNop()
)

// PersistenceAdapter is the capability the store uses to load and persist
// the full note collection. Load returns an empty collection on any
// error, Save reports failure as a boolean, and neither may panic; a
// failed save never rolls back the in-memory mutation.
type PersistenceAdapter interface {
	Load() []Note
	Save(collection []Note) bool
	Clear()
}

// NotePatch carries the fields UpdateNote merges into an existing note.
// Nil fields are left untouched; the note id can never be patched.
type NotePatch struct {
	Title    *string
	Content  *string
	Status   *Status
	Reminder *string
	Tags     []string
}

// StoreConfig wires the store's collaborators. Adapter is required;
// everything else has a working default.
type StoreConfig struct {
	Adapter    PersistenceAdapter
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
	SoonWindow time.Duration
	Search     SearchOptions
}

// Store owns the canonical note collection plus the selection and query
// state. All derived views are pure projections of the current state and
// recomputed on demand. One store instance serves one application
// session; Close performs the final save.
type Store struct {
	mu         sync.Mutex
	collection []Note
	selectedID string
	query      string
	tagFilters map[string]struct{}

	adapter    PersistenceAdapter
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
	soonWindow time.Duration
	search     SearchOptions
}

// NewStore builds a store initialized from the adapter's persisted
// snapshot. The first note in collection order becomes the selection.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Adapter == nil {
		return nil, errMissingAdapter
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = NewUUIDProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	soonWindow := cfg.SoonWindow
	if soonWindow <= 0 {
		soonWindow = DefaultSoonWindow
	}

	store := &Store{
		collection: cfg.Adapter.Load(),
		tagFilters: make(map[string]struct{}),
		adapter:    cfg.Adapter,
		clock:      clock,
		idProvider: idProvider,
		logger:     logger,
		soonWindow: soonWindow,
		search:     cfg.Search.withDefaults(),
	}
	if len(store.collection) > 0 {
		store.selectedID = store.collection[0].ID
	}
	return store, nil
}

// CreateNote inserts a new note with defaults, selects it, and returns
// its id.
func (s *Store) CreateNote() string {
	return s.CreateNoteFromTemplate(TemplateKeyBlank)
}

// CreateNoteFromTemplate inserts a new note whose title and content come
// from the named template, falling back to the blank template for
// unknown keys. The new note becomes the selection.
func (s *Store) CreateNoteFromTemplate(templateKey string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	draft := BuildNoteFromTemplate(templateKey, now)
	note := Note{
		ID:        s.idProvider.NewID(),
		Title:     draft.Title,
		Content:   draft.Content,
		UpdatedAt: now.UnixMilli(),
		Status:    StatusTodo,
	}
	s.collection = append([]Note{note}, s.collection...)
	s.selectedID = note.ID
	s.persist()
	return note.ID
}

// UpdateNote merges the patch into the note matching id and refreshes
// its UpdatedAt. A missing id is a silent no-op.
func (s *Store) UpdateNote(id string, patch NotePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	note := &s.collection[idx]
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Status != nil {
		note.Status = NormalizeStatus(string(*patch.Status))
	}
	if patch.Reminder != nil {
		note.Reminder = strings.TrimSpace(*patch.Reminder)
	}
	if patch.Tags != nil {
		note.Tags = NormalizeTags(patch.Tags)
	}
	note.UpdatedAt = s.clock().UnixMilli()
	s.persist()
}

// DeleteNote removes the note. When the deleted note was selected, the
// selection moves to the first remaining note in collection order, or
// clears if none remain.
func (s *Store) DeleteNote(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	s.collection = append(s.collection[:idx], s.collection[idx+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
		if len(s.collection) > 0 {
			s.selectedID = s.collection[0].ID
		}
	}
	s.persist()
}

// SelectNote sets the selection unconditionally. Selecting an id not in
// the collection is allowed and simply yields no current note.
func (s *Store) SelectNote(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// SetQuery replaces the free-text search query.
func (s *Store) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = text
}

// ToggleTagFilter adds the tag to the active filters when absent and
// removes it when present. Blank tags are ignored.
func (s *Store) ToggleTagFilter(tag string) {
	cleaned := strings.ToLower(strings.TrimSpace(tag))
	if cleaned == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, active := s.tagFilters[cleaned]; active {
		delete(s.tagFilters, cleaned)
		return
	}
	s.tagFilters[cleaned] = struct{}{}
}

// ClearTagFilters removes every active tag filter.
func (s *Store) ClearTagFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagFilters = make(map[string]struct{})
}

// SetReminder sets or clears (empty input) the note's reminder and bumps
// UpdatedAt. A missing id is a silent no-op.
func (s *Store) SetReminder(id, iso string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.collection[idx].Reminder = strings.TrimSpace(iso)
	s.collection[idx].UpdatedAt = s.clock().UnixMilli()
	s.persist()
}

// SetTags replaces the note's tag set with the normalized input and
// bumps UpdatedAt. A missing id is a silent no-op.
func (s *Store) SetTags(id string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.collection[idx].Tags = NormalizeTags(tags)
	s.collection[idx].UpdatedAt = s.clock().UnixMilli()
	s.persist()
}

// CreateReminder either attaches a reminder to an existing note
// (LinkToNoteID set) or creates a standalone reminder note. It returns
// the affected note's id, or an empty string when the input is invalid
// or the linked note does not exist; no mutation happens on refusal.
func (s *Store) CreateReminder(input CreateReminderInput) string {
	if err := input.Validate(); err != nil {
		s.logger.Debug("reminder input rejected", zap.Error(err))
		return ""
	}
	iso := input.composeISO()

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.LinkToNoteID != "" {
		idx := s.indexOf(input.LinkToNoteID)
		if idx < 0 {
			return ""
		}
		s.collection[idx].Reminder = iso
		s.collection[idx].UpdatedAt = s.clock().UnixMilli()
		s.persist()
		return input.LinkToNoteID
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Reminder"
	}
	note := Note{
		ID:        s.idProvider.NewID(),
		Title:     title,
		UpdatedAt: s.clock().UnixMilli(),
		Reminder:  iso,
		Status:    StatusTodo,
	}
	s.collection = append([]Note{note}, s.collection...)
	s.persist()
	return note.ID
}

// MoveNote moves the note to the given kanban column.
func (s *Store) MoveNote(id string, status Status) {
	normalized := NormalizeStatus(string(status))
	s.UpdateNote(id, NotePatch{Status: &normalized})
}

// Notes returns a copy of the raw collection in collection order.
func (s *Store) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNotes(s.collection)
}

// FilteredNotes derives the search view: active tag filters first, then
// the free-text query with highlight annotation, over the UpdatedAt
// descending base order.
func (s *Store) FilteredNotes() []SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Search(s.filterByTags(s.collection), s.query, s.search)
}

// CurrentNote resolves the selection by lookup; the boolean is false when
// nothing is selected or the selected id is not in the collection.
func (s *Store) CurrentNote() (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.selectedID)
	if idx < 0 {
		return Note{}, false
	}
	return s.collection[idx].Clone(), true
}

// SelectedID returns the selected note id, empty when none.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Query returns the current free-text query.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Reminders derives the flat classified reminder list, soonest first.
func (s *Store) Reminders() []ReminderEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ClassifyReminders(s.collection, s.clock(), s.soonWindow)
}

// Agenda derives the daily agenda buckets for the current day.
func (s *Store) Agenda() Agenda {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildAgenda(s.collection, s.clock(), s.soonWindow)
}

// Calendar derives the 42-cell month grid for the given cursor.
func (s *Store) Calendar(year int, month time.Month) []CalendarCell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MonthGrid(s.collection, year, month)
}

// CalendarItems derives the untruncated per-date grouping backing the
// selected-date detail panel.
func (s *Store) CalendarItems() map[string][]CalendarItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ItemsByDate(s.collection)
}

// Board derives the three kanban columns.
func (s *Store) Board() []KanbanColumn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Board(s.collection)
}

// UniqueTags returns the sorted union of all tags across the collection.
func (s *Store) UniqueTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, note := range s.collection {
		for _, tag := range note.Tags {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ActiveTagFilters returns the active filters in sorted order.
func (s *Store) ActiveTagFilters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters := make([]string, 0, len(s.tagFilters))
	for tag := range s.tagFilters {
		filters = append(filters, tag)
	}
	sort.Strings(filters)
	return filters
}

// Close performs the session's final save.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist()
}

// persist saves the full collection. Failures are logged and swallowed;
// the in-memory state stays the source of truth for the session.
// Callers must hold s.mu.
func (s *Store) persist() {
	if !s.adapter.Save(cloneNotes(s.collection)) {
		s.logger.Warn("note collection save failed", zap.Int("notes", len(s.collection)))
	}
}

// indexOf finds a note by id. Callers must hold s.mu.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.collection {
		if s.collection[i].ID == id {
			return i
		}
	}
	return -1
}

// filterByTags keeps notes carrying every active filter tag. Callers
// must hold s.mu.
func (s *Store) filterByTags(collection []Note) []Note {
	if len(s.tagFilters) == 0 {
		return collection
	}

	filtered := make([]Note, 0, len(collection))
	for _, note := range collection {
		tags := make(map[string]struct{}, len(note.Tags))
		for _, tag := range note.Tags {
			tags[tag] = struct{}{}
		}
		keep := true
		for filter := range s.tagFilters {
			if _, ok := tags[filter]; !ok {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

func cloneNotes(collection []Note) []Note {
	cloned := make([]Note, 0, len(collection))
	for _, note := range collection {
		cloned = append(cloned, note.Clone())
	}
	return cloned
}
