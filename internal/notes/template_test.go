package notes

import (
	"strings"
	"testing"
	"time"
)

func TestTemplateByKeyFallsBackToBlank(t *testing.T) {
	if got := TemplateByKey("does-not-exist").Key; got != TemplateKeyBlank {
		t.Fatalf("expected blank fallback, got %q", got)
	}
	if got := TemplateByKey("meeting").Key; got != "meeting" {
		t.Fatalf("expected meeting template, got %q", got)
	}
}

func TestBuildNoteFromTemplateBlank(t *testing.T) {
	draft := BuildNoteFromTemplate(TemplateKeyBlank, time.Now())
	if draft.Title != DefaultTitle || draft.Content != "" {
		t.Fatalf("unexpected blank draft %+v", draft)
	}
}

func TestBuildNoteFromTemplateMeetingCarriesDate(t *testing.T) {
	now := localTime(2024, time.March, 10, 12, 0)
	draft := BuildNoteFromTemplate("meeting", now)
	if !strings.Contains(draft.Title, "Mar 10, 2024") {
		t.Fatalf("meeting title should carry the date, got %q", draft.Title)
	}
	if !strings.Contains(draft.Content, "## Action Items") {
		t.Fatalf("meeting content should carry the skeleton")
	}
}

func TestBuildNoteFromTemplateJournalCarriesWeekday(t *testing.T) {
	now := localTime(2024, time.March, 10, 12, 0)
	draft := BuildNoteFromTemplate("daily_journal", now)
	if !strings.Contains(draft.Title, "Sunday, March 10, 2024") {
		t.Fatalf("journal title should carry the full date, got %q", draft.Title)
	}
}

func TestTemplatesRegistryIsStable(t *testing.T) {
	listed := Templates()
	if len(listed) != 5 {
		t.Fatalf("expected 5 templates, got %d", len(listed))
	}
	if listed[0].Key != TemplateKeyBlank {
		t.Fatalf("blank template must come first")
	}

	listed[0].Key = "mutated"
	if Templates()[0].Key != TemplateKeyBlank {
		t.Fatalf("registry must not be mutable through the returned slice")
	}
}
