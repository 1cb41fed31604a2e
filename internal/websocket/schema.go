package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot Event = "snapshot"
	EventPong     Event = "pong"
	EventError    Event = "error"
)

// MonitorStudent is one attempt row in a live monitor snapshot.
type MonitorStudent struct {
	StudentID   int      `json:"student_id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name"`
	Status      string   `json:"status"`
	Score       *float64 `json:"score,omitempty"`
	StartedAt   string   `json:"started_at"`
	SubmittedAt string   `json:"submitted_at,omitempty"`
}

// MonitorStats aggregates a snapshot.
type MonitorStats struct {
	TotalAttempts int      `json:"total_attempts"`
	InProgress    int      `json:"in_progress"`
	Completed     int      `json:"completed"`
	AvgScore      *float64 `json:"avg_score,omitempty"`
}

// MonitorSnapshot is the full state pushed to staff watching an exam.
type MonitorSnapshot struct {
	Event    Event            `json:"event"`
	ExamID   string           `json:"exam_id"`
	Title    string           `json:"title"`
	Stats    MonitorStats     `json:"stats"`
	Students []MonitorStudent `json:"students"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}
