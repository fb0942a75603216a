package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

const (
	eventTranscribe = "transcribe"
	eventSummarize  = "summarize"
	eventSucceed    = "succeed"
	eventFail       = "fail"
)

var allStates = []string{
	string(StatusPending),
	string(StatusTranscribing),
	string(StatusSummarizing),
	string(StatusSuccess),
	string(StatusError),
}

// newMachine builds the per-session status machine. The transcribe event is
// both the first entry from pending and the retry path from every other state.
func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(StatusPending),
		fsm.Events{
			{Name: eventTranscribe, Src: allStates, Dst: string(StatusTranscribing)},
			{Name: eventSummarize, Src: []string{string(StatusTranscribing)}, Dst: string(StatusSummarizing)},
			{Name: eventSucceed, Src: []string{string(StatusSummarizing)}, Dst: string(StatusSuccess)},
			{Name: eventFail, Src: []string{string(StatusTranscribing), string(StatusSummarizing)}, Dst: string(StatusError)},
		},
		fsm.Callbacks{},
	)
}

func eventFor(target Status) (string, error) {
	switch target {
	case StatusTranscribing:
		return eventTranscribe, nil
	case StatusSummarizing:
		return eventSummarize, nil
	case StatusSuccess:
		return eventSucceed, nil
	case StatusError:
		return eventFail, nil
	default:
		return "", fmt.Errorf("%w: no event leads to %q", ErrInvalidTransition, target)
	}
}

// transition fires the event leading to target. Re-entering transcribing is allowed.
func transition(m *fsm.FSM, target Status) error {
	event, err := eventFor(target)
	if err != nil {
		return err
	}

	err = m.Event(context.Background(), event)
	if err == nil {
		return nil
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}

	return fmt.Errorf("%w: %s -> %s: %v", ErrInvalidTransition, m.Current(), target, err)
}
