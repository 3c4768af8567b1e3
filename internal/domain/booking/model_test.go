package booking

import (
	"strings"
	"testing"
	"time"
)

func TestParseStatus_RoundTrip(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q): unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}
}

func TestParseStatus_Rejections(t *testing.T) {
	for _, s := range []string{"", "scheduled", "SCHEDULED", "Unknown", "Cancelled ", "NoShow2"} {
		if _, err := ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q): expected error", s)
		}
	}
}

func TestAppendNote_Format(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got := AppendNote("initial", "patient called to confirm", at)
	want := "initial\n[2026-03-14 09:30] patient called to confirm"
	if got != want {
		t.Errorf("AppendNote = %q, want %q", got, want)
	}
}

func TestAppendNote_EmptyNotes(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	got := AppendNote("", "patient called to confirm", at)
	want := "[2026-03-14 09:30] patient called to confirm"
	if got != want {
		t.Errorf("first entry must not start with a separator: %q", got)
	}
}

func TestAppendNote_AccumulatesInOrder(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	notes := AppendNote("", "first", at)
	notes = AppendNote(notes, "second", at.Add(time.Hour))

	first := strings.Index(notes, "first")
	second := strings.Index(notes, "second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("notes out of order: %q", notes)
	}
}
