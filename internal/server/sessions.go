package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/subtitle"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

// Transkripsiyon durumları.
const (
	TranscriptIdle    = "idle"
	TranscriptRunning = "running"
	TranscriptDone    = "done"
	TranscriptError   = "error"
)

// Session tek bir videonun düzenleme oturumudur. Tüm alanlara mu altında
// erişilir; Editor kendi başına eşzamanlı kullanıma uygun değildir.
type Session struct {
	ID        string
	Input     string
	CreatedAt time.Time

	mu         sync.Mutex
	editor     *timeline.Editor
	export     ExportStatusResponse
	exporting  bool
	transcript TranscriptResponse
}

// With oturum kilidi altında fn'i çalıştırır.
func (s *Session) With(fn func(e *timeline.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.editor)
}

func (s *Session) response(handled *bool) SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responseLocked(handled)
}

func (s *Session) responseLocked(handled *bool) SessionResponse {
	ticks := s.editor.Ticks()
	if ticks == nil {
		ticks = []timeline.Tick{}
	}
	return SessionResponse{
		ID:       s.ID,
		Input:    s.Input,
		Timeline: s.editor.Snapshot(),
		Ticks:    ticks,
		Handled:  handled,
	}
}

func (s *Session) setExport(status export.Status, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.export.Status = status
	s.export.Message = message
	if status == export.StatusDone || status == export.StatusError {
		s.exporting = false
	}
}

func (s *Session) setTranscript(status string, cues []subtitle.Cue, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript.Status = status
	s.transcript.Error = errMsg
	if cues != nil {
		s.transcript.Cues = cues
	}
}

// Store bellekteki oturumları tutar.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create verilen medya için yeni bir oturum açar.
func (st *Store) Create(input string, duration, width float64) *Session {
	e := timeline.NewEditor()
	e.Load(duration)
	if width > 0 {
		e.SetWidth(width)
	}
	s := &Session{
		ID:         uuid.NewString(),
		Input:      input,
		CreatedAt:  time.Now(),
		editor:     e,
		transcript: TranscriptResponse{Status: TranscriptIdle},
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
