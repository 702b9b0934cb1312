package usecase_recommend

import "errors"

var (
	ErrDirectory          = errors.New("failed to look up linked accounts")
	ErrNoLinkedAccounts   = errors.New("no linked accounts in this group")
	ErrPresence           = errors.New("failed to read presence channel")
	ErrNoPresentMembers   = errors.New("nobody is present, nothing to recommend")
	ErrProfileFetch       = errors.New("failed to fetch profile data")
	ErrNoCandidates       = errors.New("no rated movie on any present member's watchlist")
	ErrSessionNotFound    = errors.New("no such recommendation session")
	ErrUnsupportedControl = errors.New("control is not available in the current state")
)

// haltReason is the metrics label for the error that stopped a session.
func haltReason(err error) string {
	switch {
	case errors.Is(err, ErrNoLinkedAccounts):
		return "no_linked_accounts"
	case errors.Is(err, ErrNoPresentMembers):
		return "no_present_members"
	case errors.Is(err, ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, ErrProfileFetch):
		return "profile_fetch"
	case errors.Is(err, ErrPresence):
		return "presence"
	case errors.Is(err, ErrDirectory):
		return "directory"
	default:
		return "other"
	}
}
