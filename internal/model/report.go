package model

// TextSeparator joins the text blocks of a ContentReport.
// TextLength is always the length of the blocks joined with this separator,
// so appending a block must go through AppendTextBlock to keep the two in sync.
const TextSeparator = "\n"

// BlockSource identifies where a text block came from.
type BlockSource string

// Text block sources.
const (
	// BlockDOM is a visible text block extracted from the rendered DOM.
	BlockDOM BlockSource = "dom"

	// BlockDecoded is instruction text recovered by the encoded-content
	// decoder and appended after the block it was decoded from.
	BlockDecoded BlockSource = "decoded"
)

// TextBlock is one ordered unit of visible (or decoded) page text.
type TextBlock struct {
	// Text is the whitespace-normalized block content.
	Text string `json:"text"`

	// Source records whether the block came from the DOM or a decoder.
	Source BlockSource `json:"source"`
}

// Heading is a document heading in document order.
type Heading struct {
	// Level is the heading depth, 1 through 6.
	Level int `json:"level"`

	// Text is the heading's visible text.
	Text string `json:"text"`
}

// Link is an anchor discovered on the page.
type Link struct {
	// Text is the anchor's visible text.
	Text string `json:"text"`

	// Href is the literal href attribute as written in the markup.
	Href string `json:"href"`

	// ResolvedURL is Href resolved to an absolute URL against the
	// snapshot's final URL. When resolution fails it holds the original
	// literal and Unresolved is set.
	ResolvedURL string `json:"resolved_url"`

	// Unresolved marks links whose href could not be parsed as a URL.
	Unresolved bool `json:"unresolved,omitempty"`
}

// Image is an image reference discovered on the page.
type Image struct {
	// Alt is the alt attribute, possibly empty.
	Alt string `json:"alt"`

	// Src is the literal src attribute as written in the markup.
	Src string `json:"src"`

	// ResolvedURL is Src resolved against the snapshot's final URL,
	// or the original literal when resolution fails.
	ResolvedURL string `json:"resolved_url"`

	// Unresolved marks images whose src could not be parsed as a URL.
	Unresolved bool `json:"unresolved,omitempty"`
}

// Table is one extracted HTML table as ordered row/cell text.
type Table struct {
	// Rows holds the cell text of each row in document order.
	Rows [][]string `json:"rows"`
}

// TranscriptStatus is the outcome of one transcription attempt.
type TranscriptStatus string

// Transcript statuses.
const (
	// TranscriptSuccess means the speech-to-text collaborator returned text.
	TranscriptSuccess TranscriptStatus = "success"

	// TranscriptFailed means transcription failed; Text is empty.
	// A failed transcript never aborts the pipeline.
	TranscriptFailed TranscriptStatus = "failed"
)

// AudioTranscript is the transcription of one discovered audio clip.
type AudioTranscript struct {
	// SourceURL is the absolute URL of the audio clip.
	SourceURL string `json:"source_url"`

	// Status records whether transcription succeeded.
	Status TranscriptStatus `json:"status"`

	// Text is the transcript, empty on failure.
	Text string `json:"text"`

	// Truncated is an advisory flag set when the transcript appears cut
	// off mid-sentence. It is a heuristic, never authoritative.
	Truncated bool `json:"truncated"`
}

// ContentReport is the normalized extraction result for one snapshot.
// It is created once per snapshot and never mutated after assembly except
// to append audio transcripts and decoded text blocks.
type ContentReport struct {
	// URL is the snapshot's final resolved URL.
	URL string `json:"url"`

	// Method records how the snapshot was obtained.
	Method FetchMethod `json:"method"`

	// Title is the page title, empty if absent.
	Title string `json:"title"`

	// TextBlocks is the ordered sequence of visible text blocks.
	TextBlocks []TextBlock `json:"text_blocks"`

	// Headings lists document headings in document order.
	Headings []Heading `json:"headings"`

	// Links lists anchors with non-empty href in document order.
	Links []Link `json:"links"`

	// Images lists image references in document order.
	Images []Image `json:"images"`

	// AudioSources lists audio clip URLs discovered from <audio>/<source>
	// elements, in document order.
	AudioSources []Link `json:"audio_sources,omitempty"`

	// Tables lists extracted tables in document order.
	Tables []Table `json:"tables"`

	// HTMLLength is the length of the raw HTML string. Reported even when zero.
	HTMLLength int `json:"html_length"`

	// TextLength is the length of all text blocks joined with TextSeparator.
	// Reported even when zero.
	TextLength int `json:"text_length"`

	// QueryParams maps query parameter names from the snapshot's URL to
	// their (URL-decoded) values. Keys are unique; the first value wins.
	QueryParams map[string]string `json:"query_params"`

	// AudioTranscripts holds transcription results in discovery order.
	AudioTranscripts []AudioTranscript `json:"audio_transcripts,omitempty"`
}

// JoinedText returns all text blocks joined with TextSeparator.
// Its length always equals TextLength.
func (r *ContentReport) JoinedText() string {
	if len(r.TextBlocks) == 0 {
		return ""
	}
	n := (len(r.TextBlocks) - 1) * len(TextSeparator)
	for _, b := range r.TextBlocks {
		n += len(b.Text)
	}
	out := make([]byte, 0, n)
	for i, b := range r.TextBlocks {
		if i > 0 {
			out = append(out, TextSeparator...)
		}
		out = append(out, b.Text...)
	}
	return string(out)
}

// AppendTextBlock inserts a block at index idx (or appends when idx is out of
// range) and updates TextLength so the join invariant holds.
func (r *ContentReport) AppendTextBlock(idx int, block TextBlock) {
	if idx < 0 || idx >= len(r.TextBlocks) {
		r.TextBlocks = append(r.TextBlocks, block)
	} else {
		r.TextBlocks = append(r.TextBlocks[:idx+1], append([]TextBlock{block}, r.TextBlocks[idx+1:]...)...)
	}
	r.recomputeTextLength()
}

// recomputeTextLength refreshes TextLength from the current blocks.
func (r *ContentReport) recomputeTextLength() {
	r.TextLength = len(r.JoinedText())
}
