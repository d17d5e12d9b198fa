package notes

import (
	"strings"
	"time"
)

// TemplateKeyBlank is the fallback template for unknown keys.
const TemplateKeyBlank = "blank"

// Template is one named note skeleton. BuildTitle takes the current time
// so date-bearing titles stay deterministic under an injected clock.
type Template struct {
	Key          string
	Name         string
	Description  string
	BuildTitle   func(now time.Time) string
	BuildContent func() string
}

// NoteDraft is the title/content pair a template produces for creation.
type NoteDraft struct {
	Title   string
	Content string
}

var templates = []Template{
	{
		Key:         TemplateKeyBlank,
		Name:        "Blank",
		Description: "Start from scratch.",
		BuildTitle:  func(time.Time) string { return DefaultTitle },
		BuildContent: func() string {
			return ""
		},
	},
	{
		Key:         "meeting",
		Name:        "Meeting Notes",
		Description: "Agenda, attendees, decisions, and action items.",
		BuildTitle: func(now time.Time) string {
			return "Meeting Notes — " + now.Format("Jan 2, 2006")
		},
		BuildContent: func() string {
			return joinLines(
				"# Meeting Notes",
				"",
				"Date: ",
				"Attendees: ",
				"",
				"## Agenda",
				"- ",
				"- ",
				"- ",
				"",
				"## Discussion",
				"- ",
				"- ",
				"",
				"## Decisions",
				"- ",
				"",
				"## Action Items",
				"- [ ] Owner — Task (due: )",
				"- [ ] Owner — Task (due: )",
				"",
			)
		},
	},
	{
		Key:         "daily_journal",
		Name:        "Daily Journal",
		Description: "Reflect on your day with prompts.",
		BuildTitle: func(now time.Time) string {
			return "Journal — " + now.Format("Monday, January 2, 2006")
		},
		BuildContent: func() string {
			return joinLines(
				"# Daily Journal",
				"",
				"## Gratitude",
				"- ",
				"- ",
				"- ",
				"",
				"## Highlights",
				"- ",
				"- ",
				"",
				"## Challenges",
				"- ",
				"",
				"## What I learned",
				"- ",
				"",
				"## Tomorrow",
				"- ",
				"",
			)
		},
	},
	{
		Key:         "todo",
		Name:        "To-do List",
		Description: "Simple list of tasks.",
		BuildTitle:  func(time.Time) string { return "To-do" },
		BuildContent: func() string {
			return joinLines(
				"# To-do",
				"",
				"- [ ] ",
				"- [ ] ",
				"- [ ] ",
				"",
				"## Notes",
				"- ",
				"",
			)
		},
	},
	{
		Key:         "project_brief",
		Name:        "Project Brief",
		Description: "Objectives, scope, milestones, and risks.",
		BuildTitle:  func(time.Time) string { return "Project Brief" },
		BuildContent: func() string {
			return joinLines(
				"# Project Brief",
				"",
				"## Overview",
				"",
				"## Objectives",
				"- ",
				"- ",
				"",
				"## Scope",
				"- In Scope:",
				"  - ",
				"- Out of Scope:",
				"  - ",
				"",
				"## Milestones",
				"- ",
				"- ",
				"",
				"## Risks & Mitigations",
				"- Risk: ",
				"  - Mitigation: ",
				"",
				"## Stakeholders",
				"- ",
				"",
			)
		},
	},
}

// Templates returns the registry in its fixed display order.
func Templates() []Template {
	listed := make([]Template, len(templates))
	copy(listed, templates)
	return listed
}

// TemplateByKey resolves a template, falling back to the blank template
// for unknown keys.
func TemplateByKey(key string) Template {
	for _, candidate := range templates {
		if candidate.Key == key {
			return candidate
		}
	}
	for _, candidate := range templates {
		if candidate.Key == TemplateKeyBlank {
			return candidate
		}
	}
	return Template{}
}

// BuildNoteFromTemplate produces the draft a new note starts from.
func BuildNoteFromTemplate(key string, now time.Time) NoteDraft {
	resolved := TemplateByKey(key)
	return NoteDraft{
		Title:   resolved.BuildTitle(now),
		Content: resolved.BuildContent(),
	}
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}
