package model

// View is a full snapshot of what the presentation channel should draw.
type View struct {
	SessionID  SessionID        `json:"session_id"`
	State      SessionState     `json:"state"`
	Progress   []string         `json:"progress,omitempty"`
	Error      string           `json:"error,omitempty"`
	Attendance *AttendancePanel `json:"attendance,omitempty"`
	Results    *ResultsPanel    `json:"results,omitempty"`
	Controls   []Control        `json:"controls,omitempty"`
}

type AttendancePanel struct {
	// Person currently being asked about, empty once attendance is done
	Active           string   `json:"active,omitempty"`
	Present          []string `json:"present"`
	Ignored          []string `json:"ignored"`
	Absent           []string `json:"absent"`
	ApplyToRemaining bool     `json:"apply_to_remaining"`
}

type ResultsPanel struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Score      string `json:"score"`
	Title      string `json:"title"`
	Rating     string `json:"rating"`
	Poster     string `json:"poster,omitempty"`
}

type Control struct {
	ID       ControlID `json:"id"`
	Label    string    `json:"label"`
	Disabled bool      `json:"disabled,omitempty"`
}
