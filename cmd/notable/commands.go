package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/notablehq/notable/internal/config"
	"github.com/notablehq/notable/internal/logging"
	"github.com/notablehq/notable/internal/notes"
	"github.com/notablehq/notable/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// session bundles the configured store with its teardown.
type session struct {
	cfg    config.AppConfig
	logger *zap.Logger
	store  *notes.Store
	close  func()
}

func openSession() (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var adapter notes.PersistenceAdapter
	var closeAdapter func()
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		sqliteAdapter, openErr := storage.OpenSQLite(cfg.StoragePath, logger)
		if openErr != nil {
			return nil, openErr
		}
		adapter = sqliteAdapter
		closeAdapter = func() { _ = sqliteAdapter.Close() }
	default:
		adapter = storage.NewFileAdapter(cfg.StoragePath, logger)
	}

	store, err := notes.NewStore(notes.StoreConfig{
		Adapter:    adapter,
		Logger:     logger,
		SoonWindow: cfg.SoonWindow(),
		Search: notes.SearchOptions{
			SnippetBefore: cfg.SnippetBefore,
			SnippetAfter:  cfg.SnippetAfter,
		},
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		close: func() {
			store.Close()
			if closeAdapter != nil {
				closeAdapter()
			}
			_ = logger.Sync()
		},
	}, nil
}

func newNewCommand() *cobra.Command {
	var templateKey, title, content string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note, optionally from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			id := sess.store.CreateNoteFromTemplate(templateKey)
			patch := notes.NotePatch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if patch.Title != nil || patch.Content != nil {
				sess.store.UpdateNote(id, patch)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&templateKey, "template", notes.TemplateKeyBlank, "Template key (see 'notable templates')")
	cmd.Flags().StringVar(&title, "title", "", "Initial title")
	cmd.Flags().StringVar(&content, "content", "", "Initial content")
	return cmd
}

func newListCommand() *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			for _, tag := range tags {
				sess.store.ToggleTagFilter(tag)
			}
			for _, result := range sess.store.FilteredNotes() {
				printNoteRow(cmd, result.Note)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only notes carrying every given tag")
	return cmd
}

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes with match highlighting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			sess.store.SetQuery(strings.Join(args, " "))
			results := sess.store.FilteredNotes()
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", result.Note.ID, result.Note.DisplayTitle())
				if result.TitleMatch != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  title:    %s\n", markMatches(result.TitleMatch))
				}
				if result.ContentMatch != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  content:  %s\n", markMatches(result.ContentMatch))
				}
				if result.ReminderMatch != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  reminder: %s\n", markMatches(result.ReminderMatch))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d note(s)\n", len(results))
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			sess.store.SelectNote(args[0])
			note, ok := sess.store.CurrentNote()
			if !ok {
				return fmt.Errorf("no note with id %q", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", note.DisplayTitle())
			fmt.Fprintf(out, "id:      %s\n", note.ID)
			fmt.Fprintf(out, "status:  %s\n", note.Status)
			fmt.Fprintf(out, "updated: %s\n", time.UnixMilli(note.UpdatedAt).Format(time.RFC1123))
			if len(note.Tags) > 0 {
				fmt.Fprintf(out, "tags:    %s\n", strings.Join(note.Tags, ", "))
			}
			for _, entry := range sess.store.Reminders() {
				if entry.NoteID == note.ID {
					fmt.Fprintf(out, "%s\n", entry.Label())
				}
			}
			if note.Content != "" {
				fmt.Fprintf(out, "\n%s\n", note.Content)
			}
			return nil
		},
	}
}

func newEditCommand() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			patch := notes.NotePatch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			sess.store.UpdateNote(args[0], patch)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	return cmd
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			sess.store.DeleteNote(args[0])
			return nil
		},
	}
}

func newTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> [tags...]",
		Short: "Replace a note's tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			sess.store.SetTags(args[0], args[1:])
			return nil
		},
	}
}

func newRemindCommand() *cobra.Command {
	var timeOfDay, title, noteID string
	cmd := &cobra.Command{
		Use:   "remind <date>",
		Short: "Create a reminder, standalone or attached to a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			id := sess.store.CreateReminder(notes.CreateReminderInput{
				Date:         args[0],
				Time:         timeOfDay,
				Title:        title,
				LinkToNoteID: noteID,
			})
			if id == "" {
				return fmt.Errorf("reminder refused: check the date (YYYY-MM-DD), time (HH:MM), and note id")
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&timeOfDay, "time", "", "Time of day, HH:MM (defaults to 09:00)")
	cmd.Flags().StringVar(&title, "title", "", "Title for a standalone reminder note")
	cmd.Flags().StringVar(&noteID, "note", "", "Attach the reminder to this note instead")
	return cmd
}

func newMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <todo|inprogress|done>",
		Short: "Move a note to a kanban column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			sess.store.MoveNote(args[0], notes.Status(args[1]))
			return nil
		},
	}
}

func newAgendaCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show today's agenda: overdue, today's reminders, notes touched today",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			printAgenda(cmd, sess.store.Agenda())
			if !watch {
				return nil
			}
			if sess.cfg.StorageBackend != config.BackendFile {
				return fmt.Errorf("--watch requires the file storage backend")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			// The refresh reads the file directly: going through a store
			// would save on teardown and re-trigger the watcher.
			reader := storage.NewFileAdapter(sess.cfg.StoragePath, sess.logger)
			return storage.WatchFile(ctx, sess.cfg.StoragePath, sess.logger, func() {
				printAgenda(cmd, notes.BuildAgenda(reader.Load(), time.Now(), sess.cfg.SoonWindow()))
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render when the notes file changes")
	return cmd
}

func newCalendarCommand() *cobra.Command {
	var monthCursor, detailDate string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month grid of notes and reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			now := time.Now()
			year, month := now.Year(), now.Month()
			if monthCursor != "" {
				cursor, parseErr := time.ParseInLocation("2006-01", monthCursor, time.Local)
				if parseErr != nil {
					return fmt.Errorf("invalid --month %q, want YYYY-MM", monthCursor)
				}
				year, month = cursor.Year(), cursor.Month()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, notes.MonthLabel(year, month))
			for _, cell := range sess.store.Calendar(year, month) {
				if !cell.InMonth || len(cell.Items) == 0 {
					continue
				}
				inline := cell.Items
				if len(inline) > notes.InlineCalendarItems {
					inline = inline[:notes.InlineCalendarItems]
				}
				fmt.Fprintf(out, "%s:", cell.Key)
				for _, item := range inline {
					if item.Kind == notes.CalendarItemReminder {
						fmt.Fprintf(out, "  [%s %s]", item.Time, item.Title)
						continue
					}
					fmt.Fprintf(out, "  [%s]", item.Title)
				}
				if overflow := cell.Overflow(); overflow > 0 {
					fmt.Fprintf(out, "  +%d more", overflow)
				}
				fmt.Fprintln(out)
			}

			if detailDate != "" {
				items := sess.store.CalendarItems()[detailDate]
				fmt.Fprintf(out, "\n%s: %d item(s)\n", detailDate, len(items))
				for _, item := range items {
					if item.Kind == notes.CalendarItemReminder {
						fmt.Fprintf(out, "  reminder %s  %s  (%s)\n", item.Time, item.Title, item.NoteID)
						continue
					}
					fmt.Fprintf(out, "  note     %s  (%s)\n", item.Title, item.NoteID)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&monthCursor, "month", "", "Month to display, YYYY-MM (defaults to the current month)")
	cmd.Flags().StringVar(&detailDate, "date", "", "Also list every item on this date, YYYY-MM-DD")
	return cmd
}

func newBoardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			defer sess.close()

			out := cmd.OutOrStdout()
			for _, column := range sess.store.Board() {
				fmt.Fprintf(out, "%s (%d)\n", column.Label, len(column.Notes))
				for _, note := range column.Notes {
					fmt.Fprintf(out, "  %s  %s\n", note.ID, note.DisplayTitle())
				}
			}
			return nil
		},
	}
}

func newTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available note templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, template := range notes.Templates() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-14s %s\n", template.Key, template.Name, template.Description)
			}
			return nil
		},
	}
}

func printNoteRow(cmd *cobra.Command, note notes.Note) {
	updated := time.UnixMilli(note.UpdatedAt).Format("2006-01-02 15:04")
	row := fmt.Sprintf("%s  %-10s %s  %s", note.ID, note.Status, updated, note.DisplayTitle())
	if len(note.Tags) > 0 {
		row += "  #" + strings.Join(note.Tags, " #")
	}
	fmt.Fprintln(cmd.OutOrStdout(), row)
}

func printAgenda(cmd *cobra.Command, agenda notes.Agenda) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Overdue (%d)\n", len(agenda.OverdueReminders))
	for _, entry := range agenda.OverdueReminders {
		fmt.Fprintf(out, "  %s  %s\n", entry.At.Format("Jan 2 15:04"), entry.Title)
	}
	fmt.Fprintf(out, "Today's reminders (%d)\n", len(agenda.TodayReminders))
	for _, entry := range agenda.TodayReminders {
		fmt.Fprintf(out, "  %s  %s\n", entry.At.Format("15:04"), entry.Title)
	}
	fmt.Fprintf(out, "Notes touched today (%d)\n", len(agenda.TodayNotes))
	for _, note := range agenda.TodayNotes {
		fmt.Fprintf(out, "  %s  %s\n", time.UnixMilli(note.UpdatedAt).Format("15:04"), note.DisplayTitle())
	}
}

// markMatches renders a field match with every highlight range wrapped in
// brackets and ellipses for truncated snippet edges.
func markMatches(match *notes.FieldMatch) string {
	runes := []rune(match.Text)
	var builder strings.Builder
	if match.TruncatedStart {
		builder.WriteString("…")
	}
	cursor := 0
	for _, r := range match.Ranges {
		builder.WriteString(string(runes[cursor:r.Start]))
		builder.WriteString("[")
		builder.WriteString(string(runes[r.Start:r.End]))
		builder.WriteString("]")
		cursor = r.End
	}
	builder.WriteString(string(runes[cursor:]))
	if match.TruncatedEnd {
		builder.WriteString("…")
	}
	return builder.String()
}
