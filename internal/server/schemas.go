package server

import (
	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/subtitle"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptimeS"`
	Sessions int    `json:"sessions"`
}

type CreateSessionRequest struct {
	Input    string  `json:"input"`
	Duration float64 `json:"duration,omitempty"`
	Width    float64 `json:"width,omitempty"`
}

type SessionResponse struct {
	ID       string            `json:"id"`
	Input    string            `json:"input"`
	Timeline timeline.Snapshot `json:"timeline"`
	Ticks    []timeline.Tick   `json:"ticks"`
	// Handled etkileşimin modeli değiştirip değiştirmediğini bildirir.
	Handled *bool `json:"handled,omitempty"`
}

type WidthRequest struct {
	Width float64 `json:"width"`
}

type PlayheadRequest struct {
	Time float64 `json:"time"`
	// Playback true ise konum oynatma saatinden gelir: silinmiş alanlar atlanır.
	Playback bool `json:"playback,omitempty"`
}

type CutRequest struct {
	Time *float64 `json:"time,omitempty"`
}

type PointerRequest struct {
	Type string  `json:"type"` // down, move, up, leave, click
	X    float64 `json:"x"`
}

type SelectRequest struct {
	Time float64 `json:"time"`
}

type ZoomRequest struct {
	Zoom   float64  `json:"zoom"`
	Anchor *float64 `json:"anchor,omitempty"`
}

type ScrollRequest struct {
	Percent float64 `json:"percent"`
}

type KeepSegmentsResponse struct {
	Segments       []timeline.Range `json:"segments"`
	EditedDuration float64          `json:"editedDuration"`
}

type ExportRequest struct {
	Output        string `json:"output,omitempty"`
	Codec         string `json:"codec,omitempty"`
	Quality       int    `json:"quality,omitempty"`
	StripMetadata bool   `json:"stripMetadata,omitempty"`
	VideoOnly     bool   `json:"videoOnly,omitempty"`
}

type ExportStatusResponse struct {
	Status   export.Status `json:"status,omitempty"`
	Message  string        `json:"message,omitempty"`
	Output   string        `json:"output,omitempty"`
	Codec    string        `json:"codec,omitempty"`
	Note     string        `json:"note,omitempty"`
	Segments int           `json:"segments"`
}

type TranscribeRequest struct {
	Language string `json:"language,omitempty"`
	Task     string `json:"task,omitempty"`
}

type TranscriptResponse struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Time   string         `json:"time"`
	Cues   []subtitle.Cue `json:"cues"`
}
