package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

var ErrNotFound = errors.New("archived session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	displayName TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL,
	transcription TEXT NOT NULL,
	metadata TEXT NOT NULL,
	createdAt REAL NOT NULL,
	archivedAt REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
	sessionId TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	sequenceNumber INTEGER NOT NULL,
	startSec REAL NOT NULL,
	endSec REAL NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (sessionId, sequenceNumber)
);
`

// Record is one archived session.
type Record struct {
	ID            string             `json:"id"`
	DisplayName   string             `json:"displayName"`
	Title         string             `json:"title"`
	Summary       string             `json:"summary"`
	Transcription string             `json:"transcription"`
	Metadata      queue.CallMetadata `json:"metadata"`
	Timeline      []queue.Segment    `json:"timeline,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	ArchivedAt    time.Time          `json:"archivedAt"`
}

// Store keeps finished sessions in SQLite so they survive restarts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the archived copy of a session.
func (s *Store) Save(ctx context.Context, res pipeline.Result) error {
	md, err := json.Marshal(res.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE sessionId = ?`, res.ID); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, displayName, title, summary, transcription, metadata, createdAt, archivedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			displayName = excluded.displayName,
			title = excluded.title,
			summary = excluded.summary,
			transcription = excluded.transcription,
			metadata = excluded.metadata,
			archivedAt = excluded.archivedAt
	`, res.ID, res.DisplayName, res.Metadata.Title, res.Summary, res.Transcription, string(md),
		unixSeconds(res.CreatedAt), unixSeconds(s.now()))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	for i, seg := range res.Timeline {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO segments (sessionId, sequenceNumber, startSec, endSec, text)
			VALUES (?, ?, ?, ?, ?)
		`, res.ID, i, seg.Start, seg.End, seg.Text); err != nil {
			return fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Get returns one session with its timeline.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, displayName, title, summary, transcription, metadata, createdAt, archivedAt
		FROM sessions
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return Record{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT startSec, endSec, text
		FROM segments
		WHERE sessionId = ?
		ORDER BY sequenceNumber ASC
	`, id)
	if err != nil {
		return Record{}, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seg queue.Segment
		if err := rows.Scan(&seg.Start, &seg.End, &seg.Text); err != nil {
			return Record{}, fmt.Errorf("scan segment: %w", err)
		}
		rec.Timeline = append(rec.Timeline, seg)
	}
	return rec, rows.Err()
}

// List returns archived sessions, newest first, without timelines.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, displayName, title, summary, transcription, metadata, createdAt, archivedAt
		FROM sessions
		ORDER BY createdAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes an archived session. Missing ids report ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var md string
	var createdAt, archivedAt float64

	if err := sc.Scan(&rec.ID, &rec.DisplayName, &rec.Title, &rec.Summary, &rec.Transcription,
		&md, &createdAt, &archivedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal([]byte(md), &rec.Metadata); err != nil {
		return Record{}, fmt.Errorf("decode metadata: %w", err)
	}
	rec.CreatedAt = timeFromUnix(createdAt)
	rec.ArchivedAt = timeFromUnix(archivedAt)
	return rec, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
