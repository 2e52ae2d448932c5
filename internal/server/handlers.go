package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/logging"
	"github.com/mlihgenel/videocut-cli/internal/project"
	"github.com/mlihgenel/videocut-cli/internal/subtitle"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
	"github.com/mlihgenel/videocut-cli/internal/transcribe"
)

const sessionKey contextKey = "session"

func sessionFrom(r *http.Request) *Session {
	s, _ := r.Context().Value(sessionKey).(*Session)
	return s
}

func (a *api) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, ok := a.store.Get(id)
		if !ok {
			WriteError(w, http.StatusNotFound, "session not found", "NOT_FOUND")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// decode boş gövdeyi geçerli sayar.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  a.cfg.Version,
		UptimeS:  int64(a.cfg.Now().Sub(a.cfg.StartTime).Seconds()),
		Sessions: a.store.Len(),
	})
}

func (a *api) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		WriteError(w, http.StatusBadRequest, "input is required", "BAD_REQUEST")
		return
	}
	info, err := os.Stat(req.Input)
	if err != nil || info.IsDir() {
		WriteError(w, http.StatusBadRequest, "input file not found", "BAD_REQUEST")
		return
	}

	duration := req.Duration
	if duration <= 0 {
		if a.cfg.Prober == nil {
			WriteError(w, http.StatusBadRequest, "duration is required when no prober is configured", "BAD_REQUEST")
			return
		}
		d, err := a.cfg.Prober.Duration(r.Context(), req.Input)
		if err != nil {
			a.logger.Warn("duration probe failed", "input", logging.SanitizePath(req.Input), "error", err)
			WriteError(w, http.StatusUnprocessableEntity, "could not read media duration", "PROBE_FAILED")
			return
		}
		duration = d
	}

	s := a.store.Create(req.Input, duration, req.Width)
	logging.WithSessionID(a.logger, s.ID).Info("session created", "input", logging.SanitizePath(req.Input), "duration", duration)
	WriteJSON(w, http.StatusCreated, s.response(nil))
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, sessionFrom(r).response(nil))
}

func (a *api) deleteSession(w http.ResponseWriter, r *http.Request) {
	a.store.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

// media kaynak videoyu Range destekli olarak sunar.
func (a *api) media(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	f, err := os.Open(s.Input)
	if err != nil {
		WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "media stat failed", "INTERNAL_ERROR")
		return
	}
	http.ServeContent(w, r, filepath.Base(s.Input), info.ModTime(), f)
}

// mutate isteği çözer, editor üzerinde fn'i kilit altında çalıştırır ve
// güncel oturumu döner.
func mutate[T any](w http.ResponseWriter, r *http.Request, fn func(e *timeline.Editor, req T) bool) {
	var req T
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	s := sessionFrom(r)
	s.mu.Lock()
	handled := fn(s.editor, req)
	resp := s.responseLocked(&handled)
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, resp)
}

func (a *api) setWidth(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req WidthRequest) bool {
		e.SetWidth(req.Width)
		return true
	})
}

func (a *api) setPlayhead(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req PlayheadRequest) bool {
		if req.Playback {
			// handled=false oynatmanın sona ulaştığını bildirir
			return !e.AdvancePlayhead(req.Time)
		}
		e.SetPlayhead(req.Time)
		e.FollowPlayhead()
		return true
	})
}

func (a *api) addCut(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req CutRequest) bool {
		if req.Time != nil {
			return e.Model().AddCut(*req.Time)
		}
		return e.AddCutAtPlayhead()
	})
}

func (a *api) pointer(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req PointerRequest) bool {
		switch strings.ToLower(req.Type) {
		case "down":
			return e.PointerDown(req.X)
		case "move":
			return e.UpdateDrag(req.X)
		case "up", "leave":
			dragging := e.State() == timeline.StateDragging
			e.EndDrag()
			return dragging
		case "click":
			return e.Click(req.X)
		default:
			return false
		}
	})
}

func (a *api) selectAt(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req SelectRequest) bool {
		return e.SelectAtTime(req.Time)
	})
}

func (a *api) clearSelection(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, _ struct{}) bool {
		_, had := e.Model().Selected()
		e.Model().ClearSelection()
		return had
	})
}

func (a *api) deleteSelected(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, _ struct{}) bool {
		return e.DeleteSelected()
	})
}

func (a *api) setZoom(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req ZoomRequest) bool {
		anchor := e.Playhead()
		if req.Anchor != nil {
			anchor = *req.Anchor
		}
		e.SetZoom(req.Zoom, anchor)
		return true
	})
}

func (a *api) zoomToPlayhead(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req ZoomRequest) bool {
		e.ZoomToPlayhead(req.Zoom)
		return true
	})
}

func (a *api) setScroll(w http.ResponseWriter, r *http.Request) {
	mutate(w, r, func(e *timeline.Editor, req ScrollRequest) bool {
		e.SetScrollPercent(req.Percent)
		return true
	})
}

func (a *api) keepSegments(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	var resp KeepSegmentsResponse
	s.With(func(e *timeline.Editor) {
		resp.Segments = e.ComputeKeepSegments()
		resp.EditedDuration = e.Model().EditedDuration()
	})
	if resp.Segments == nil {
		resp.Segments = []timeline.Range{}
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (a *api) edl(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	fps := 0.0
	if raw := r.URL.Query().Get("fps"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			WriteError(w, http.StatusBadRequest, "invalid fps", "BAD_REQUEST")
			return
		}
		fps = v
	} else if fr, ok := a.cfg.Prober.(FrameRateProber); ok {
		if v, err := fr.FrameRate(r.Context(), s.Input); err == nil {
			fps = v
		}
	}

	var segments []timeline.Range
	s.With(func(e *timeline.Editor) { segments = e.ComputeKeepSegments() })

	title := strings.TrimSuffix(filepath.Base(s.Input), filepath.Ext(s.Input))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".edl"))
	io.WriteString(w, export.GenerateEDL(segments, title, s.Input, fps))
}

func (a *api) getProject(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	var f project.File
	s.With(func(e *timeline.Editor) { f = project.FromModel(e.Model(), s.Input) })
	WriteJSON(w, http.StatusOK, f)
}

func (a *api) putProject(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	var f project.File
	if err := decode(r, &f); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if f.Input == "" {
		f.Input = s.Input
	}
	if err := f.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	s.mu.Lock()
	f.ApplyToEditor(s.editor)
	resp := s.responseLocked(nil)
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, resp)
}

func (a *api) startExport(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if a.cfg.Transcoder == nil {
		WriteError(w, http.StatusServiceUnavailable, "transcoder is not configured", "TRANSCODER_UNAVAILABLE")
		return
	}
	var req ExportRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	output := export.BuildOutputPath(s.Input, "", a.cfg.OutputDir, req.Output, a.cfg.Now())
	resolved, skip, err := export.ResolveOutputPathConflict(output, a.cfg.OnConflict)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	if skip {
		WriteError(w, http.StatusConflict, "output already exists", "OUTPUT_EXISTS")
		return
	}
	codec, note, err := export.ResolveCodec(s.Input, resolved, req.Codec)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		WriteError(w, http.StatusConflict, "export already running", "EXPORT_RUNNING")
		return
	}
	segments := s.editor.ComputeKeepSegments()
	s.exporting = true
	s.export = ExportStatusResponse{
		Status:   export.StatusPreparing,
		Output:   resolved,
		Codec:    codec,
		Note:     note,
		Segments: len(segments),
	}
	resp := s.export
	s.mu.Unlock()

	job := export.Job{
		Input:         s.Input,
		Output:        resolved,
		Segments:      segments,
		Codec:         codec,
		Quality:       req.Quality,
		StripMetadata: req.StripMetadata,
		VideoOnly:     req.VideoOnly,
	}
	logger := logging.WithSessionID(a.logger, s.ID)
	a.background(func(ctx context.Context) {
		start := time.Now()
		err := export.Run(ctx, a.cfg.Transcoder, job, s.setExport)
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
		if err != nil {
			logger.Error("export failed", "output", logging.SanitizePath(job.Output), "error", err)
			return
		}
		logger.Info("export finished", "output", logging.SanitizePath(job.Output), "segments", len(job.Segments), "duration_ms", time.Since(start).Milliseconds())
	})

	WriteJSON(w, http.StatusAccepted, resp)
}

func (a *api) exportStatus(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.mu.Lock()
	resp := s.export
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, resp)
}

func (a *api) startTranscribe(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if a.cfg.Transcriber == nil || a.cfg.ExtractPCM == nil {
		WriteError(w, http.StatusServiceUnavailable, "transcriber is not configured", "TRANSCRIBER_UNAVAILABLE")
		return
	}
	var req TranscribeRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	s.mu.Lock()
	if s.transcript.Status == TranscriptRunning {
		s.mu.Unlock()
		WriteError(w, http.StatusConflict, "transcription already running", "BUSY")
		return
	}
	s.transcript = TranscriptResponse{Status: TranscriptRunning, Time: "source"}
	s.mu.Unlock()

	opts := transcribe.Options{Language: req.Language, Task: req.Task}
	logger := logging.WithSessionID(a.logger, s.ID)
	a.background(func(ctx context.Context) {
		pcm, err := a.cfg.ExtractPCM(ctx, s.Input)
		if err != nil {
			logger.Error("audio extraction failed", "error", err)
			s.setTranscript(TranscriptError, nil, err.Error())
			return
		}
		segs, err := a.cfg.Transcriber.Transcribe(ctx, pcm, opts)
		if err != nil {
			logger.Error("transcription failed", "error", err)
			s.setTranscript(TranscriptError, nil, err.Error())
			return
		}
		s.setTranscript(TranscriptDone, segs, "")
		logger.Info("transcription finished", "segments", len(segs))
	})

	WriteJSON(w, http.StatusAccepted, TranscriptResponse{Status: TranscriptRunning, Time: "source", Cues: []subtitle.Cue{}})
}

// transcript tanıma sonucunu döner. time=edited cue'ları düzenlenmiş zamana
// taşır; format=srt SRT metni döner.
func (a *api) transcript(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	mode := r.URL.Query().Get("time")
	if mode == "" {
		mode = "source"
	}
	if mode != "source" && mode != "edited" {
		WriteError(w, http.StatusBadRequest, "time must be source or edited", "BAD_REQUEST")
		return
	}

	s.mu.Lock()
	resp := s.transcript
	cues := append([]subtitle.Cue(nil), resp.Cues...)
	if mode == "edited" {
		cues = subtitle.RemapToEdited(cues, s.editor.Model())
	}
	s.mu.Unlock()

	resp.Time = mode
	resp.Cues = cues
	if resp.Cues == nil {
		resp.Cues = []subtitle.Cue{}
	}

	if r.URL.Query().Get("format") == "srt" {
		if resp.Status != TranscriptDone {
			WriteError(w, http.StatusConflict, "transcript is not ready", "NOT_READY")
			return
		}
		w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
		io.WriteString(w, subtitle.RenderSRT(resp.Cues))
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
