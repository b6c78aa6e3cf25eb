package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quizscan/quizscan/internal/model"
)

// titleCaser renders identifiers as section labels.
var titleCaser = cases.Title(language.English)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.QuizReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	if report.Content != nil {
		w.writeStatistics(md, report.Content)
		w.writeStructure(md, report.Content)
		w.writeTranscripts(md, report.Content)
		w.writeDecoded(md, report.Content)
	}
	w.writeTask(md, report.Task)
	w.writeAnswer(md, report.Answer)
	w.writeSubmission(md, report.Submission)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.QuizReport) {
	md.H1("Quizscan Report")
	md.PlainText("")

	method := "unknown"
	if report.Snapshot != nil {
		method = titleCaser.String(string(report.Snapshot.Method))
	}

	duration := ""
	if !report.FinishedAt.IsZero() {
		duration = report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String()
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Fetch Method", method},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", duration},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func (w *MarkdownWriter) statusText(report *model.QuizReport) string {
	if report.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Failed at " + report.ErrorStage + " - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeStatistics writes the content statistics section.
func (w *MarkdownWriter) writeStatistics(md *markdown.Markdown, content *model.ContentReport) {
	md.H2("Page Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Title", content.Title},
			{"HTML Length", strconv.Itoa(content.HTMLLength)},
			{"Text Length", strconv.Itoa(content.TextLength)},
			{"Text Blocks", strconv.Itoa(len(content.TextBlocks))},
			{"Headings", strconv.Itoa(len(content.Headings))},
			{"Links", strconv.Itoa(len(content.Links))},
			{"Images", strconv.Itoa(len(content.Images))},
			{"Tables", strconv.Itoa(len(content.Tables))},
			{"Audio Clips", strconv.Itoa(len(content.AudioSources))},
		},
	})
	md.PlainText("")
}

// writeStructure writes headings, links, and images.
func (w *MarkdownWriter) writeStructure(md *markdown.Markdown, content *model.ContentReport) {
	if len(content.Headings) > 0 {
		md.H2("Headings")
		md.PlainText("")
		items := make([]string, 0, len(content.Headings))
		for _, h := range content.Headings {
			items = append(items, "H"+strconv.Itoa(h.Level)+": "+h.Text)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(content.Links) > 0 {
		md.H2("Links")
		md.PlainText("")
		rows := make([][]string, 0, len(content.Links))
		for _, l := range content.Links {
			rows = append(rows, []string{l.Text, "`" + l.ResolvedURL + "`"})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Text", "URL"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(content.Images) > 0 {
		md.H2("Images")
		md.PlainText("")
		rows := make([][]string, 0, len(content.Images))
		for _, img := range content.Images {
			rows = append(rows, []string{img.Alt, "`" + img.ResolvedURL + "`"})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Alt", "URL"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeTranscripts writes the audio transcript section.
func (w *MarkdownWriter) writeTranscripts(md *markdown.Markdown, content *model.ContentReport) {
	if len(content.AudioTranscripts) == 0 {
		return
	}

	md.H2("Audio Transcripts")
	md.PlainText("")
	rows := make([][]string, 0, len(content.AudioTranscripts))
	for _, t := range content.AudioTranscripts {
		status := string(t.Status)
		if t.Truncated {
			status += " (truncated)"
		}
		rows = append(rows, []string{"`" + t.SourceURL + "`", status, t.Text})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Status", "Transcript"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDecoded writes recovered text blocks.
func (w *MarkdownWriter) writeDecoded(md *markdown.Markdown, content *model.ContentReport) {
	decoded := make([]string, 0)
	for _, b := range content.TextBlocks {
		if b.Source == model.BlockDecoded {
			decoded = append(decoded, b.Text)
		}
	}
	if len(decoded) == 0 {
		return
	}

	md.H2("Decoded Content")
	md.PlainText("")
	md.BulletList(decoded...)
	md.PlainText("")
}

// writeTask writes the interpreted task section.
func (w *MarkdownWriter) writeTask(md *markdown.Markdown, task *model.TaskDescription) {
	if task == nil {
		return
	}

	md.H2("Interpreted Task")
	md.PlainText("")

	rows := [][]string{
		{"Submission URL", "`" + task.SubmissionURL + "`"},
		{"Required Fields", joinFields(task.RequiredFields)},
		{"Incomplete", strconv.FormatBool(task.Incomplete)},
	}
	names := make([]string, 0, len(task.DerivedParams))
	for name := range task.DerivedParams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []string{"Derived " + titleCaser.String(name), strconv.FormatInt(task.DerivedParams[name], 10)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAnswer writes the resolved answer as the JSON that was (or would
// be) submitted.
func (w *MarkdownWriter) writeAnswer(md *markdown.Markdown, ans *model.Answer) {
	if ans == nil {
		return
	}

	md.H2("Resolved Answer")
	md.PlainText("")

	payload, err := ans.MarshalOrdered()
	if err != nil {
		md.PlainText("answer incomplete: " + err.Error())
		md.PlainText("")
		return
	}
	md.CodeBlocks(markdown.SyntaxHighlightJSON, string(payload))
	md.PlainText("")
}

// writeSubmission writes the submission outcome.
func (w *MarkdownWriter) writeSubmission(md *markdown.Markdown, result *model.SubmissionResult) {
	if result == nil {
		return
	}

	md.H2("Submission")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Status Code", strconv.Itoa(result.StatusCode)},
			{"Attempts", strconv.Itoa(result.Attempts)},
			{"Response", result.ResponseBody},
		},
	})
	md.PlainText("")
}

// joinFields renders a field list as inline code.
func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += "`" + f + "`"
	}
	return out
}
