package model

import "github.com/google/uuid"

type SessionID = uuid.UUID

type SessionState string

const (
	StateGatheringAccounts  SessionState = "gathering_accounts"
	StateTakingAttendance   SessionState = "taking_attendance"
	StateAttendanceComplete SessionState = "attendance_complete"
	StateCollecting         SessionState = "collecting"
	StateScoring            SessionState = "scoring"
	StateEnriching          SessionState = "enriching"
	StatePaginated          SessionState = "paginated"
	StateHalted             SessionState = "halted"
)

type ControlID string

const (
	ControlPresent        ControlID = "attendance.present"
	ControlIgnore         ControlID = "attendance.ignore"
	ControlAbsent         ControlID = "attendance.absent"
	ControlApplyRemaining ControlID = "attendance.apply_remaining"

	ControlFirstPage ControlID = "page.first"
	ControlPrevPage  ControlID = "page.previous"
	ControlNextPage  ControlID = "page.next"
	ControlLastPage  ControlID = "page.last"
)

// Event is a control press delivered by the presentation channel.
type Event struct {
	Control  ControlID `json:"control"`
	Identity string    `json:"identity"`
}
