package model

import (
	"testing"
)

// TestContentReportJoinedText tests the text join invariant.
func TestContentReportJoinedText(t *testing.T) {
	t.Parallel()

	t.Run("empty report joins to empty string", func(t *testing.T) {
		t.Parallel()

		r := &ContentReport{}
		if got := r.JoinedText(); got != "" {
			t.Errorf("expected empty join, got %q", got)
		}
	})

	t.Run("joins blocks with the declared separator", func(t *testing.T) {
		t.Parallel()

		r := &ContentReport{
			TextBlocks: []TextBlock{
				{Text: "first", Source: BlockDOM},
				{Text: "second", Source: BlockDOM},
				{Text: "third", Source: BlockDOM},
			},
		}
		r.recomputeTextLength()

		want := "first" + TextSeparator + "second" + TextSeparator + "third"
		if got := r.JoinedText(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
		if r.TextLength != len(want) {
			t.Errorf("expected text length %d, got %d", len(want), r.TextLength)
		}
	})
}

// TestContentReportAppendTextBlock tests block insertion and the length invariant.
func TestContentReportAppendTextBlock(t *testing.T) {
	t.Parallel()

	t.Run("inserts decoded block after source block", func(t *testing.T) {
		t.Parallel()

		r := &ContentReport{
			TextBlocks: []TextBlock{
				{Text: "before", Source: BlockDOM},
				{Text: "after", Source: BlockDOM},
			},
		}
		r.recomputeTextLength()

		r.AppendTextBlock(0, TextBlock{Text: "decoded", Source: BlockDecoded})

		if len(r.TextBlocks) != 3 {
			t.Fatalf("expected 3 blocks, got %d", len(r.TextBlocks))
		}
		if r.TextBlocks[1].Text != "decoded" {
			t.Errorf("expected decoded block at index 1, got %q", r.TextBlocks[1].Text)
		}
		if r.TextLength != len(r.JoinedText()) {
			t.Errorf("text length %d out of sync with join %d", r.TextLength, len(r.JoinedText()))
		}
	})

	t.Run("appends when index is out of range", func(t *testing.T) {
		t.Parallel()

		r := &ContentReport{
			TextBlocks: []TextBlock{{Text: "only", Source: BlockDOM}},
		}
		r.recomputeTextLength()

		r.AppendTextBlock(99, TextBlock{Text: "tail", Source: BlockDecoded})

		if r.TextBlocks[len(r.TextBlocks)-1].Text != "tail" {
			t.Errorf("expected appended block at the end, got %+v", r.TextBlocks)
		}
	})
}

// TestAnswerMarshalOrdered tests ordered JSON serialization.
func TestAnswerMarshalOrdered(t *testing.T) {
	t.Parallel()

	t.Run("preserves field order", func(t *testing.T) {
		t.Parallel()

		a := NewAnswer([]string{"email", "secret", "url", "answer"})
		a.Set("email", "user@example.com")
		a.Set("secret", "TOKEN")
		a.Set("url", "https://example.com/quiz")
		a.Set("answer", int64(103))

		got, err := a.MarshalOrdered()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `{"email":"user@example.com","secret":"TOKEN","url":"https://example.com/quiz","answer":103}`
		if string(got) != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("fails on missing field value", func(t *testing.T) {
		t.Parallel()

		a := NewAnswer([]string{"email", "answer"})
		a.Set("email", "user@example.com")

		if _, err := a.MarshalOrdered(); err == nil {
			t.Error("expected error for missing field value")
		}
		if a.Complete() {
			t.Error("expected incomplete answer")
		}
	})
}

// TestQuizReportRecordError tests that only the first fatal error is kept.
func TestQuizReportRecordError(t *testing.T) {
	t.Parallel()

	r := NewQuizReport("https://example.com/quiz")
	r.RecordError("fetch", errFirst)
	r.RecordError("extract", errSecond)

	if r.ErrorStage != "fetch" {
		t.Errorf("expected first error stage to win, got %q", r.ErrorStage)
	}
	if r.Succeeded() {
		t.Error("expected failed report")
	}
}

var (
	errFirst  = errString("first")
	errSecond = errString("second")
)

type errString string

func (e errString) Error() string { return string(e) }
