package queue

// Queue maps session ids to sessions and owns their lifecycle and status.
// It is the only source of truth read by observers.
type Queue interface {
	// Upsert returns the session for id, creating it (status pending) on first call.
	// created is false when the session already existed; its metadata is left untouched.
	Upsert(id, filename, displayName string, md CallMetadata) (s *Session, created bool)
	// ReplaceMetadata swaps the call metadata wholesale while the session is pending.
	ReplaceMetadata(id string, md CallMetadata) error
	// SetStatus moves the session through the state machine and emits status-changed.
	SetStatus(s *Session, status Status) error
	// Fail moves the session to error and records the cause.
	Fail(s *Session, cause error) error
	// Complete attaches the summary and moves the session to success in one step.
	Complete(s *Session, summary string) error

	Get(id string) (*Session, bool)
	Remove(id string) bool
	List() []*Session
	Clear()
}
