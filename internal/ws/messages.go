package ws

import "encoding/json"

// Envelope wraps every WS frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// Inbound event names (client -> relay). The dispatch switch over these is
// the closed set of operations the relay understands.
const (
	EventJoin           = "join"
	EventCodeChange     = "codeChange"
	EventLeaveRoom      = "leaveRoom"
	EventTyping         = "typing"
	EventLanguageChange = "languageChange"
	EventThemeChange    = "themeChange"
	EventCompileCode    = "compileCode"
	EventGetAIReview    = "getAIReview"
)

// Outbound event names (relay -> client).
const (
	EventUserJoined     = "userJoined"
	EventCodeUpdate     = "codeUpdate"
	EventLanguageUpdate = "languageUpdate"
	EventThemeUpdate    = "themeUpdate"
	EventUserTyping     = "userTyping"
	EventCodeResponse   = "codeResponse"
	EventAIReview       = "AIReview"
	EventError          = "error"
)

// ──────────────────────────── Request DTOs ────────────────────────────

type JoinRequest struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type CodeChangeRequest struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

type TypingRequest struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type LanguageChangeRequest struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

type ThemeChangeRequest struct {
	RoomID string `json:"roomId"`
	Theme  string `json:"theme"`
}

type CompileRequest struct {
	Code     string `json:"code"`
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
	Version  string `json:"version"`
	Stdin    string `json:"stdin"`
}

type ReviewRequest struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// ErrorBody is returned for malformed or unknown inbound events.
type ErrorBody struct {
	Error string `json:"error"`
}

// encodeEnvelope marshals body and wraps it into the wire envelope.
func encodeEnvelope(event string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Body: raw})
}
