package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"google.golang.org/genai"
)

// transcribePrompt asks the model for a verbatim transcript and nothing else.
const transcribePrompt = "Transcribe this audio clip verbatim. " +
	"Return only the spoken words, with no commentary or formatting."

// mimeTypes maps audio file extensions to their MIME types.
var mimeTypes = map[string]string{
	".opus": "audio/opus",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
}

// Transcriber converts one audio clip into text.
// Implementations must be safe for concurrent use.
type Transcriber interface {
	// Transcribe downloads the clip at sourceURL and returns its transcript.
	Transcribe(ctx context.Context, sourceURL string) (string, error)
}

// GeminiTranscriber transcribes audio clips with the Gemini API.
// The clip bytes are sent inline with a transcription prompt.
type GeminiTranscriber struct {
	client      *genai.Client
	httpClient  *http.Client
	model       string
	maxBodySize int64
}

// GeminiOption configures a GeminiTranscriber.
type GeminiOption func(*GeminiTranscriber)

// WithHTTPClient sets the HTTP client used to download clips.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(t *GeminiTranscriber) {
		t.httpClient = c
	}
}

// WithMaxBodySize limits the clip size in bytes.
func WithMaxBodySize(n int64) GeminiOption {
	return func(t *GeminiTranscriber) {
		t.maxBodySize = n
	}
}

// NewGeminiTranscriber creates a transcriber backed by the Gemini API.
func NewGeminiTranscriber(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, ErrTranscriptionDisabled
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	t := &GeminiTranscriber{
		client:      client,
		httpClient:  http.DefaultClient,
		model:       model,
		maxBodySize: 5 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Transcribe downloads the clip and asks the model for a verbatim transcript.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, sourceURL string) (string, error) {
	data, mimeType, err := t.download(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty transcript for %s", sourceURL)
	}
	return text, nil
}

// download fetches the clip bytes and infers the MIME type from the URL path.
func (t *GeminiTranscriber) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download %s: unexpected status %d", sourceURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodySize))
	if err != nil {
		return nil, "", err
	}

	mimeType := mimeTypes[strings.ToLower(path.Ext(req.URL.Path))]
	if mimeType == "" {
		mimeType = resp.Header.Get("Content-Type")
	}
	if mimeType == "" {
		mimeType = "audio/mpeg"
	}
	return data, mimeType, nil
}

// DisabledTranscriber fails every clip with ErrTranscriptionDisabled.
// Used when no API key is configured so runs degrade instead of aborting.
type DisabledTranscriber struct{}

// Transcribe always returns ErrTranscriptionDisabled.
func (DisabledTranscriber) Transcribe(context.Context, string) (string, error) {
	return "", ErrTranscriptionDisabled
}
