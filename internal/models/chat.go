// internal/models/chat.go
package models

// ChatRequest is the inbound body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the success body of POST /api/chat.
type ChatReply struct {
	Reply string `json:"reply"`
}

// ErrorReply is the body returned on 4xx/5xx.
type ErrorReply struct {
	Error string `json:"error"`
}

// Preset maps a conversational trigger to a named report. Presets are loaded
// fresh from chat_presets for every request and are immutable afterwards.
type Preset struct {
	Name        string `json:"name"`
	Keywords    string `json:"keywords"` // comma-separated lowercase tokens
	Phrase      string `json:"phrase"`   // canonical phrase, matched with extra weight
	Description string `json:"description"`
	Report      string `json:"report"` // key into the report registry
}

// ReportRow is one result row of a report, column name to scalar value.
type ReportRow map[string]interface{}

// ReportResult is the normalized output of a report: always a row list, with
// the select-order column names kept so rendering is deterministic.
// Single-row reports return a one-element Rows slice.
type ReportResult struct {
	Columns []string    `json:"columns"`
	Rows    []ReportRow `json:"rows"`
}
