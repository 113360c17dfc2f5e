package models

import "time"

// IntentType classifies the purpose of a spoken command.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentOpenApplication
	IntentCloseApplication
	IntentFileOperation
	IntentEmailOperation
	IntentSystemControl
	IntentFolderNavigation
	IntentWebSearch
	IntentWebInfoRequest
	IntentCustom
)

// String returns the canonical name of the intent type.
func (t IntentType) String() string {
	switch t {
	case IntentOpenApplication:
		return "OpenApplication"
	case IntentCloseApplication:
		return "CloseApplication"
	case IntentFileOperation:
		return "FileOperation"
	case IntentEmailOperation:
		return "EmailOperation"
	case IntentSystemControl:
		return "SystemControl"
	case IntentFolderNavigation:
		return "FolderNavigation"
	case IntentWebSearch:
		return "WebSearch"
	case IntentWebInfoRequest:
		return "WebInfoRequest"
	case IntentCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Intent is the detected purpose of an utterance.
type Intent struct {
	Type IntentType `json:"type"`
	Name string     `json:"name"`
}

// Alternative is a lower-ranked candidate intent attached to a result.
type Alternative struct {
	Intent Intent  `json:"intent"`
	Score  float64 `json:"score"`
}

// IntentResult is the outcome of a single detection request.
type IntentResult struct {
	Intent         Intent            `json:"intent"`
	Confidence     float64           `json:"confidence"`
	OriginalText   string            `json:"original_text"`
	ProcessedText  string            `json:"processed_text"`
	Entities       map[string]string `json:"entities"`
	Alternatives   []Alternative     `json:"alternatives,omitempty"`
	ProcessingTime time.Duration     `json:"processing_time"`
}

// NewIntentResult returns a result with initialized entity storage.
func NewIntentResult(t IntentType, original, processed string, confidence float64) *IntentResult {
	return &IntentResult{
		Intent:        Intent{Type: t, Name: t.String()},
		Confidence:    confidence,
		OriginalText:  original,
		ProcessedText: processed,
		Entities:      make(map[string]string),
	}
}

// Actionable reports whether the result is confident enough to execute.
func (r *IntentResult) Actionable() bool {
	return r.Intent.Type != IntentUnknown && r.Confidence > 0.5
}
