package notes

import (
	"strings"
	"unicode"
)

// Default snippet window around the first content match, in runes.
const (
	DefaultSnippetBefore = 30
	DefaultSnippetAfter  = 40
)

// reminderDisplayLayout renders a reminder instant for search and labels.
const reminderDisplayLayout = "Jan 2, 2006 15:04"

// MatchRange marks one case-insensitive occurrence of the query within a
// field. Offsets are rune positions, End exclusive. For content matches
// the offsets are local to the snippet text.
type MatchRange struct {
	Start int
	End   int
}

// FieldMatch carries the display text for one matched field together with
// its highlight ranges. Truncated flags are set when the content snippet
// cut text off before or after the window.
type FieldMatch struct {
	Text           string
	Ranges         []MatchRange
	TruncatedStart bool
	TruncatedEnd   bool
}

// SearchResult pairs a note with its per-field match data. All three
// match pointers are nil when the query was empty; a nil pointer on a
// single field means that field had no matches.
type SearchResult struct {
	Note          Note
	TitleMatch    *FieldMatch
	ContentMatch  *FieldMatch
	ReminderMatch *FieldMatch
}

// SearchOptions tunes the content snippet window.
type SearchOptions struct {
	SnippetBefore int
	SnippetAfter  int
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.SnippetBefore <= 0 {
		o.SnippetBefore = DefaultSnippetBefore
	}
	if o.SnippetAfter <= 0 {
		o.SnippetAfter = DefaultSnippetAfter
	}
	return o
}

// Search filters and annotates the collection for the given query. The
// base order is always UpdatedAt descending, computed before filtering.
// An empty or whitespace query returns every note unannotated. Otherwise
// a note is kept iff the query occurs, case-insensitively, in its title,
// its whitespace-collapsed content, or its rendered reminder datetime.
func Search(collection []Note, query string, opts SearchOptions) []SearchResult {
	opts = opts.withDefaults()
	ordered := sortNotesByUpdatedDesc(collection)

	trimmedQuery := strings.TrimSpace(query)
	results := make([]SearchResult, 0, len(ordered))
	if trimmedQuery == "" {
		for _, note := range ordered {
			results = append(results, SearchResult{Note: note.Clone()})
		}
		return results
	}

	for _, note := range ordered {
		titleMatch := fullFieldMatch(note.Title, trimmedQuery)
		contentMatch := contentFieldMatch(collapseWhitespace(note.Content), trimmedQuery, opts)
		reminderMatch := fullFieldMatch(renderReminder(note), trimmedQuery)
		if titleMatch == nil && contentMatch == nil && reminderMatch == nil {
			continue
		}
		results = append(results, SearchResult{
			Note:          note.Clone(),
			TitleMatch:    titleMatch,
			ContentMatch:  contentMatch,
			ReminderMatch: reminderMatch,
		})
	}
	return results
}

// renderReminder produces the human-readable reminder text searched as the
// third field, or an empty string when the note has no parseable reminder.
func renderReminder(note Note) string {
	when, ok := note.ReminderTime()
	if !ok {
		return ""
	}
	return when.Format(reminderDisplayLayout)
}

// fullFieldMatch returns the whole field text with every match marked, or
// nil when the field has no matches.
func fullFieldMatch(text, query string) *FieldMatch {
	ranges := matchRanges(text, query)
	if len(ranges) == 0 {
		return nil
	}
	return &FieldMatch{Text: text, Ranges: ranges}
}

// contentFieldMatch windows the collapsed content around the first match
// and translates every range that overlaps the window into snippet-local
// offsets. Ranges falling partially inside the window are clipped.
func contentFieldMatch(collapsed, query string, opts SearchOptions) *FieldMatch {
	ranges := matchRanges(collapsed, query)
	if len(ranges) == 0 {
		return nil
	}

	runes := []rune(collapsed)
	first := ranges[0]
	windowStart := first.Start - opts.SnippetBefore
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := first.End + opts.SnippetAfter
	if windowEnd > len(runes) {
		windowEnd = len(runes)
	}

	local := make([]MatchRange, 0, len(ranges))
	for _, r := range ranges {
		if r.End <= windowStart || r.Start >= windowEnd {
			continue
		}
		clipped := MatchRange{Start: r.Start, End: r.End}
		if clipped.Start < windowStart {
			clipped.Start = windowStart
		}
		if clipped.End > windowEnd {
			clipped.End = windowEnd
		}
		local = append(local, MatchRange{
			Start: clipped.Start - windowStart,
			End:   clipped.End - windowStart,
		})
	}

	return &FieldMatch{
		Text:           string(runes[windowStart:windowEnd]),
		Ranges:         local,
		TruncatedStart: windowStart > 0,
		TruncatedEnd:   windowEnd < len(runes),
	}
}

// matchRanges finds all non-overlapping case-insensitive occurrences of
// query in text, leftmost first, resuming strictly after each match.
func matchRanges(text, query string) []MatchRange {
	haystack := lowerRunes(text)
	needle := lowerRunes(query)
	if len(needle) == 0 || len(haystack) < len(needle) {
		return nil
	}

	var ranges []MatchRange
	for i := 0; i+len(needle) <= len(haystack); {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			ranges = append(ranges, MatchRange{Start: i, End: i + len(needle)})
			i += len(needle)
			continue
		}
		i++
	}
	return ranges
}

// lowerRunes lowercases per rune so offsets stay aligned with the source
// text regardless of multi-byte characters.
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
