package queue

import "time"

// Status is a session's position in the processing state machine.
type Status string

const (
	StatusPending      Status = "pending"
	StatusTranscribing Status = "transcribing"
	StatusSummarizing  Status = "summarizing"
	StatusSuccess      Status = "success"
	StatusError        Status = "error"
)

// IsTerminal reports whether no automatic transition follows s.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Participant is one attendee of a call.
type Participant struct {
	Name string `json:"name" yaml:"name"`
}

// CallMetadata describes the call being recorded. It is replaced wholesale, never merged.
type CallMetadata struct {
	Title        string        `json:"title,omitempty" yaml:"title"`
	Description  string        `json:"description,omitempty" yaml:"description"`
	Time         string        `json:"time,omitempty" yaml:"time"`
	TimeStart    string        `json:"timeStart,omitempty" yaml:"timeStart"`
	TimeEnd      string        `json:"timeEnd,omitempty" yaml:"timeEnd"`
	Location     string        `json:"location,omitempty" yaml:"location"`
	Participants []Participant `json:"participants,omitempty" yaml:"participants"`
}

// Clone returns a deep copy.
func (m CallMetadata) Clone() CallMetadata {
	out := m
	if m.Participants != nil {
		out.Participants = append([]Participant(nil), m.Participants...)
	}
	return out
}

// Payload is an opaque audio blob plus what is needed to upload it.
type Payload struct {
	Data        []byte    `json:"-"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType,omitempty"`
	CapturedAt  time.Time `json:"capturedAt"`
}

// Segment is a time-coded slice of a transcription, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Chunk is one slice of captured audio and, once processed, its transcription.
// A nil Transcription means "not yet processed"; an empty string is a processed, empty result.
type Chunk struct {
	Index         int       `json:"index"`
	Audio         Payload   `json:"audio"`
	Transcription *string   `json:"transcription"`
	Segments      []Segment `json:"transcriptionSegments"`
}

// Transcribed reports whether the transcription has been attached.
func (c Chunk) Transcribed() bool {
	return c.Transcription != nil
}

// Text returns the transcription, or "" when not processed.
func (c Chunk) Text() string {
	if c.Transcription == nil {
		return ""
	}
	return *c.Transcription
}

// View is a point-in-time copy of a session, safe to hand to observers.
type View struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	DisplayName string       `json:"displayName"`
	Status      Status       `json:"status"`
	Summary     string       `json:"summary,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
	Metadata    CallMetadata `json:"callMetadata"`
	Chunks      []Chunk      `json:"chunks"`
	CreatedAt   time.Time    `json:"createdAt"`
}
