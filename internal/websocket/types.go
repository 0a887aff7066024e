package websocket

import "time"

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeAnalysis represents a completed text analysis
	EventTypeAnalysis EventType = "analysis"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// AnalysisEvent summarizes a completed analysis. The analyzed text itself
// is never broadcast.
type AnalysisEvent struct {
	RequestID      string  `json:"request_id"`
	Score          int     `json:"score"`
	Risk           string  `json:"risk"`
	Ratio          string  `json:"ratio"`
	CertaintyCount int     `json:"certainty_count"`
	EvidenceCount  int     `json:"evidence_count"`
	ClaimCount     int     `json:"claim_count"`
	Cached         bool    `json:"cached"`
	DurationMS     float64 `json:"duration_ms"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalRequests    int64  `json:"total_requests"`
	TotalAnalyses    int64  `json:"total_analyses"`
	ConnectedClients int    `json:"connected_clients"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
	Message  string `json:"message,omitempty"`
}

// ClientMessage represents messages sent from clients to server
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubscriptionRequest represents a client subscription request
type SubscriptionRequest struct {
	Events []EventType `json:"events"`
}
