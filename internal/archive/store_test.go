package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(id string, created time.Time) pipeline.Result {
	return pipeline.Result{
		View: queue.View{
			ID:          id,
			DisplayName: "name-" + id,
			Status:      queue.StatusSuccess,
			Summary:     "summary " + id,
			Metadata:    queue.CallMetadata{Title: "Sync", Participants: []queue.Participant{{Name: "Alice"}}},
			CreatedAt:   created,
		},
		Transcription: "hello world",
		Timeline:      []queue.Segment{{Start: 0, End: 5, Text: "hello"}, {Start: 5, End: 8, Text: "world"}},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 4, 14, 21, 45, 0, 0, time.UTC)

	if err := s.Save(ctx, result("s1", created)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rec, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Summary != "summary s1" || rec.Title != "Sync" || rec.Transcription != "hello world" {
		t.Errorf("Get() = %+v", rec)
	}
	if len(rec.Metadata.Participants) != 1 || rec.Metadata.Participants[0].Name != "Alice" {
		t.Errorf("Metadata = %+v", rec.Metadata)
	}
	if len(rec.Timeline) != 2 || rec.Timeline[1].Start != 5 || rec.Timeline[1].Text != "world" {
		t.Errorf("Timeline = %+v", rec.Timeline)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, created)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := result("s1", time.Now())
	if err := s.Save(ctx, res); err != nil {
		t.Fatal(err)
	}
	res.Summary = "second pass"
	res.Timeline = res.Timeline[:1]
	if err := s.Save(ctx, res); err != nil {
		t.Fatalf("Save() again error = %v", err)
	}

	rec, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Summary != "second pass" || len(rec.Timeline) != 1 {
		t.Errorf("Get() = %q with %d segments", rec.Summary, len(rec.Timeline))
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Save(ctx, result(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 3 || recs[0].ID != "new" || recs[2].ID != "old" {
		t.Errorf("List() order = %v", recs)
	}

	if err := s.Delete(ctx, "mid"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "mid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "mid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

type fakeResults map[string]pipeline.Result

func (f fakeResults) Result(ctx context.Context, id string) (pipeline.Result, error) {
	res, ok := f[id]
	if !ok {
		return pipeline.Result{}, queue.ErrNotFound
	}
	return res, nil
}

func TestArchiverSavesOnSuccess(t *testing.T) {
	s := openTestStore(t)
	bus := eventbus.New(logger.NewNop())
	defer bus.Close()

	a := NewArchiver(s, bus, fakeResults{"s1": result("s1", time.Now())}, 16, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		bus.Publish(eventbus.Event{Kind: eventbus.KindStatusChanged, SessionID: "s1", Status: "success"})
		if _, err := s.Get(context.Background(), "s1"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session was not archived")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-done
}
