package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultHTTPModel OpenAI uyumlu servislerde varsayılan model adıdır.
const DefaultHTTPModel = "whisper-1"

// HTTPTranscriber OpenAI uyumlu /audio/transcriptions uç noktasına WAV gönderir.
type HTTPTranscriber struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client

	guard busyGuard
}

// NewHTTPTranscriber verilen taban adres için istemci döner.
func NewHTTPTranscriber(baseURL, apiKey, model string) *HTTPTranscriber {
	if strings.TrimSpace(model) == "" {
		model = DefaultHTTPModel
	}
	return &HTTPTranscriber{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (c *HTTPTranscriber) Transcribe(ctx context.Context, pcm []float32, opts Options) ([]Segment, error) {
	release, err := c.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, fmt.Errorf("transkripsiyon servisi adresi tanımlı değil")
	}

	body, contentType, err := c.buildForm(pcm, opts)
	if err != nil {
		return nil, err
	}

	path := "/audio/transcriptions"
	if opts.Task == "translate" {
		path = "/audio/translations"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("transkripsiyon servisi hatası: %s (%s)", resp.Status, strings.TrimSpace(string(data)))
	}
	return normalizeResult(data)
}

func (c *HTTPTranscriber) buildForm(pcm []float32, opts Options) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, "", err
	}
	if err := WriteWAV(fw, pcm, SampleRate); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"model", c.Model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "segment"},
	}
	if opts.Language != "" && opts.Task != "translate" {
		fields = append(fields, [2]string{"language", opts.Language})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
