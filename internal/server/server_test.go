package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/subtitle"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
	"github.com/mlihgenel/videocut-cli/internal/transcribe"
)

type fakeTranscoder struct {
	mu   sync.Mutex
	jobs []export.Job
	err  error
}

func (f *fakeTranscoder) Transcode(ctx context.Context, job export.Job) error {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(job.Output, []byte("video"), 0644)
}

type stubTranscriber struct {
	cues []subtitle.Cue
	err  error
	got  int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, pcm []float32, opts transcribe.Options) ([]transcribe.Segment, error) {
	s.got = len(pcm)
	return s.cues, s.err
}

type fixedProber struct{ duration, fps float64 }

func (p fixedProber) Duration(ctx context.Context, input string) (float64, error) {
	return p.duration, nil
}

func (p fixedProber) FrameRate(ctx context.Context, input string) (float64, error) {
	return p.fps, nil
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Prober:    fixedProber{duration: 100, fps: 25},
		OutputDir: t.TempDir(),
		Version:   "test",
		Now: func() time.Time {
			return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
		},
	}
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal error: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, h http.Handler, input string) SessionResponse {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{Input: input, Width: 1000})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	return decodeBody[SessionResponse](t, rr)
}

func TestHealthAndIsolationHeaders(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	rr := do(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Cross-Origin-Opener-Policy") != "same-origin" ||
		rr.Header().Get("Cross-Origin-Embedder-Policy") != "require-corp" {
		t.Fatalf("missing isolation headers: %v", rr.Header())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
	health := decodeBody[HealthResponse](t, rr)
	if health.Status != "ok" || health.Version != "test" || health.Sessions != 0 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestCreateSessionProbesDuration(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	s := createSession(t, h, writeInput(t))
	if s.ID == "" || s.Timeline.Duration != 100 || s.Timeline.Width != 1000 {
		t.Fatalf("unexpected session: %+v", s)
	}
	if len(s.Ticks) == 0 {
		t.Fatalf("expected ruler ticks")
	}

	rr := do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{Input: filepath.Join(t.TempDir(), "yok.mp4")})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing input status = %d", rr.Code)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	rr := do(t, h, http.MethodGet, "/sessions/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if decodeBody[ErrorResponse](t, rr).Code != "NOT_FOUND" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestDragClickDeleteFlow(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	s := createSession(t, h, writeInput(t))
	base := "/sessions/" + s.ID

	at := 40.0
	rr := do(t, h, http.MethodPost, base+"/cuts", CutRequest{Time: &at})
	if got := decodeBody[SessionResponse](t, rr); len(got.Timeline.Cuts) != 1 || got.Timeline.Cuts[0] != 40 {
		t.Fatalf("unexpected cuts: %+v", got.Timeline.Cuts)
	}

	rr = do(t, h, http.MethodPost, base+"/pointer", PointerRequest{Type: "down", X: 402})
	got := decodeBody[SessionResponse](t, rr)
	if got.Handled == nil || !*got.Handled || got.Timeline.State != "dragging" {
		t.Fatalf("pointer down must grab the cut: %+v", got)
	}
	do(t, h, http.MethodPost, base+"/pointer", PointerRequest{Type: "move", X: 500})
	rr = do(t, h, http.MethodPost, base+"/pointer", PointerRequest{Type: "up", X: 500})
	got = decodeBody[SessionResponse](t, rr)
	if got.Timeline.State != "idle" || got.Timeline.Cuts[0] != 50 {
		t.Fatalf("unexpected state after drag: %+v", got.Timeline)
	}

	// Sürüklemeden hemen sonraki tıklama bastırılır.
	rr = do(t, h, http.MethodPost, base+"/pointer", PointerRequest{Type: "click", X: 700})
	if got = decodeBody[SessionResponse](t, rr); got.Timeline.Selected != nil {
		t.Fatalf("click after drag must be suppressed")
	}
	rr = do(t, h, http.MethodPost, base+"/pointer", PointerRequest{Type: "click", X: 700})
	got = decodeBody[SessionResponse](t, rr)
	if got.Timeline.Selected == nil || *got.Timeline.Selected != (timeline.Range{Start: 50, End: 100}) {
		t.Fatalf("unexpected selection: %+v", got.Timeline.Selected)
	}

	rr = do(t, h, http.MethodPost, base+"/delete", nil)
	got = decodeBody[SessionResponse](t, rr)
	if got.Timeline.EditedDuration != 50 || len(got.Timeline.Removed) != 1 {
		t.Fatalf("unexpected timeline after delete: %+v", got.Timeline)
	}

	rr = do(t, h, http.MethodGet, base+"/keep-segments", nil)
	keep := decodeBody[KeepSegmentsResponse](t, rr)
	if len(keep.Segments) != 1 || keep.Segments[0] != (timeline.Range{Start: 0, End: 50}) {
		t.Fatalf("unexpected keep segments: %+v", keep)
	}
}

func TestZoomScrollAndPlayback(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	s := createSession(t, h, writeInput(t))
	base := "/sessions/" + s.ID

	anchor := 0.0
	rr := do(t, h, http.MethodPut, base+"/zoom", ZoomRequest{Zoom: 4, Anchor: &anchor})
	got := decodeBody[SessionResponse](t, rr)
	if got.Timeline.View.Zoom != 4 || got.Timeline.View.Duration != 25 {
		t.Fatalf("unexpected view: %+v", got.Timeline.View)
	}
	rr = do(t, h, http.MethodPut, base+"/scroll", ScrollRequest{Percent: 100})
	if got = decodeBody[SessionResponse](t, rr); got.Timeline.View.Start != 75 {
		t.Fatalf("unexpected start after scroll: %v", got.Timeline.View.Start)
	}

	rr = do(t, h, http.MethodPut, base+"/playhead", PlayheadRequest{Time: 100, Playback: true})
	got = decodeBody[SessionResponse](t, rr)
	if got.Handled == nil || *got.Handled {
		t.Fatalf("playback at the end must report stop")
	}
}

func TestProjectRoundTripAndEDL(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	input := writeInput(t)
	s := createSession(t, h, input)
	base := "/sessions/" + s.ID

	body := map[string]any{
		"cuts":    []float64{10, 20},
		"removed": []map[string]float64{{"start": 10, "end": 20}},
	}
	rr := do(t, h, http.MethodPut, base+"/project", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("put project status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := decodeBody[SessionResponse](t, rr); got.Timeline.EditedDuration != 90 {
		t.Fatalf("unexpected edited duration: %v", got.Timeline.EditedDuration)
	}

	rr = do(t, h, http.MethodPut, base+"/project", map[string]any{
		"removed": []map[string]float64{{"start": 30, "end": 20}},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid range status = %d", rr.Code)
	}

	rr = do(t, h, http.MethodGet, base+"/project", nil)
	if !strings.Contains(rr.Body.String(), `"cuts":[10,20]`) {
		t.Fatalf("unexpected project body: %s", rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, base+"/edl", nil)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected edl response: %d %v", rr.Code, rr.Header())
	}
	if !strings.Contains(rr.Body.String(), "TITLE: clip") {
		t.Fatalf("unexpected edl:\n%s", rr.Body.String())
	}
}

func TestExportRunsInBackground(t *testing.T) {
	cfg := testConfig(t)
	tc := &fakeTranscoder{}
	cfg.Transcoder = tc
	a := newAPI(cfg)
	h := a.routes()
	s := createSession(t, h, writeInput(t))
	base := "/sessions/" + s.ID

	do(t, h, http.MethodPut, base+"/project", map[string]any{
		"removed": []map[string]float64{{"start": 50, "end": 100}},
	})

	rr := do(t, h, http.MethodPost, base+"/export", ExportRequest{Codec: "auto"})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("export status = %d, body %s", rr.Code, rr.Body.String())
	}
	a.jobs.Wait()

	status := decodeBody[ExportStatusResponse](t, do(t, h, http.MethodGet, base+"/export", nil))
	if status.Status != export.StatusDone || status.Codec != export.CodecCopy {
		t.Fatalf("unexpected export status: %+v", status)
	}
	want := filepath.Join(cfg.OutputDir, "clip_edited_2026-03-04.mp4")
	if status.Output != want {
		t.Fatalf("output = %s, want %s", status.Output, want)
	}
	if len(tc.jobs) != 1 || len(tc.jobs[0].Segments) != 1 || tc.jobs[0].Segments[0].End != 50 {
		t.Fatalf("unexpected transcoder jobs: %+v", tc.jobs)
	}

	// İkinci dışa aktarma mevcut dosya yüzünden sürümlü ad alır.
	do(t, h, http.MethodPost, base+"/export", ExportRequest{})
	a.jobs.Wait()
	status = decodeBody[ExportStatusResponse](t, do(t, h, http.MethodGet, base+"/export", nil))
	if !strings.HasSuffix(status.Output, "clip_edited_2026-03-04 (1).mp4") {
		t.Fatalf("expected versioned output, got %s", status.Output)
	}
}

func TestExportFailureAndMissingTranscoder(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	s := createSession(t, h, writeInput(t))
	rr := do(t, h, http.MethodPost, "/sessions/"+s.ID+"/export", ExportRequest{})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}

	cfg := testConfig(t)
	cfg.Transcoder = &fakeTranscoder{err: &export.TranscodeError{Stage: "concat", Segment: -1, Err: errors.New("exit 1")}}
	a := newAPI(cfg)
	h = a.routes()
	s = createSession(t, h, writeInput(t))
	do(t, h, http.MethodPost, "/sessions/"+s.ID+"/export", ExportRequest{})
	a.jobs.Wait()
	status := decodeBody[ExportStatusResponse](t, do(t, h, http.MethodGet, "/sessions/"+s.ID+"/export", nil))
	if status.Status != export.StatusError || !strings.Contains(status.Message, "concat") {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestTranscribeAndRemap(t *testing.T) {
	cfg := testConfig(t)
	stub := &stubTranscriber{cues: []subtitle.Cue{
		{Start: 1, End: 2, Text: "merhaba"},
		{Start: 60, End: 62, Text: "silinen"},
	}}
	cfg.Transcriber = stub
	cfg.ExtractPCM = func(ctx context.Context, input string) ([]float32, error) {
		return make([]float32, 320), nil
	}
	a := newAPI(cfg)
	h := a.routes()
	s := createSession(t, h, writeInput(t))
	base := "/sessions/" + s.ID

	rr := do(t, h, http.MethodGet, base+"/transcript?format=srt", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("srt before transcription status = %d", rr.Code)
	}

	rr = do(t, h, http.MethodPost, base+"/transcribe", TranscribeRequest{Language: "tr"})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("transcribe status = %d", rr.Code)
	}
	a.jobs.Wait()
	if stub.got != 320 {
		t.Fatalf("transcriber got %d samples", stub.got)
	}

	do(t, h, http.MethodPut, base+"/project", map[string]any{
		"removed": []map[string]float64{{"start": 50, "end": 100}},
	})

	source := decodeBody[TranscriptResponse](t, do(t, h, http.MethodGet, base+"/transcript", nil))
	if source.Status != TranscriptDone || len(source.Cues) != 2 {
		t.Fatalf("unexpected source transcript: %+v", source)
	}
	edited := decodeBody[TranscriptResponse](t, do(t, h, http.MethodGet, base+"/transcript?time=edited", nil))
	if len(edited.Cues) != 1 || edited.Cues[0].Text != "merhaba" || edited.Time != "edited" {
		t.Fatalf("unexpected edited transcript: %+v", edited)
	}

	rr = do(t, h, http.MethodGet, base+"/transcript?format=srt&time=edited", nil)
	if !strings.Contains(rr.Body.String(), "00:00:01,000 --> 00:00:02,000") || strings.Contains(rr.Body.String(), "silinen") {
		t.Fatalf("unexpected srt:\n%s", rr.Body.String())
	}
}

func TestTranscribeErrorIsReported(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcriber = &stubTranscriber{err: transcribe.ErrWorkerUnavailable}
	cfg.ExtractPCM = func(ctx context.Context, input string) ([]float32, error) {
		return []float32{0}, nil
	}
	a := newAPI(cfg)
	h := a.routes()
	s := createSession(t, h, writeInput(t))
	do(t, h, http.MethodPost, "/sessions/"+s.ID+"/transcribe", nil)
	a.jobs.Wait()

	got := decodeBody[TranscriptResponse](t, do(t, h, http.MethodGet, "/sessions/"+s.ID+"/transcript", nil))
	if got.Status != TranscriptError || got.Error != transcribe.ErrWorkerUnavailable.Error() {
		t.Fatalf("unexpected transcript: %+v", got)
	}
}

func TestMediaServesRanges(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	s := createSession(t, h, writeInput(t))
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+s.ID+"/media", nil)
	req.Header.Set("Range", "bytes=2-4")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusPartialContent || rr.Body.String() != "234" {
		t.Fatalf("unexpected range response: %d %q", rr.Code, rr.Body.String())
	}
}

func TestDeleteSession(t *testing.T) {
	h := newAPI(testConfig(t)).routes()
	s := createSession(t, h, writeInput(t))
	if rr := do(t, h, http.MethodDelete, "/sessions/"+s.ID, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/sessions/"+s.ID, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("deleted session status = %d", rr.Code)
	}
}
