package notes

// KanbanColumn is one ordered workflow bucket of the board.
type KanbanColumn struct {
	Status Status
	Label  string
	Notes  []Note
}

// boardColumns fixes the column order and display labels.
var boardColumns = []struct {
	status Status
	label  string
}{
	{StatusTodo, "Todo"},
	{StatusInProgress, "In Progress"},
	{StatusDone, "Done"},
}

// Board groups the collection into the three fixed kanban columns. A note
// with an unrecognized status lands in the todo column. Within a column,
// notes order most recently updated first.
func Board(collection []Note) []KanbanColumn {
	byStatus := make(map[Status][]Note, len(boardColumns))
	for _, note := range sortNotesByUpdatedDesc(collection) {
		status := NormalizeStatus(string(note.Status))
		byStatus[status] = append(byStatus[status], note.Clone())
	}

	columns := make([]KanbanColumn, 0, len(boardColumns))
	for _, col := range boardColumns {
		notes := byStatus[col.status]
		if notes == nil {
			notes = make([]Note, 0)
		}
		columns = append(columns, KanbanColumn{
			Status: col.status,
			Label:  col.label,
			Notes:  notes,
		})
	}
	return columns
}
