// Package store caches finished transcripts in a local sqlite database so
// reviewing the same recording twice never transcribes it twice. Recordings
// are identified by the blake3 hash of their content, not their file name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mlenz/topreview/transcript"
)

// ErrNotCached is returned when no transcript exists for a recording hash.
var ErrNotCached = errors.New("recording not cached")

// Recording is one cached media file.
type Recording struct {
	ID            int64
	Name          string
	Blake3Hash    string
	IsTranscribed bool
}

// Store wraps the sqlite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`
	PRAGMA busy_timeout       = 10000;
	PRAGMA journal_mode       = WAL;
	PRAGMA synchronous        = NORMAL;
	PRAGMA foreign_keys       = ON;
	PRAGMA temp_store         = MEMORY;

	create table if not exists recordings (
		id integer primary key autoincrement not null,
		name text not null,
		blake3_hash text not null unique,
		is_transcribed integer default 0
	);

	create table if not exists lines (
		pos integer not null,
		recording_id integer not null,
		speaker text not null,
		text text not null,
		start_ms integer not null,
		end_ms integer not null,
		primary key (pos, recording_id)
	);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRecording registers a recording by content hash, returning the
// existing row when the same content was seen before.
func (s *Store) CreateRecording(ctx context.Context, name, blake3Hash string) (Recording, error) {
	res := Recording{Name: name, Blake3Hash: blake3Hash}

	var isTranscribed uint8
	err := s.db.
		QueryRowContext(
			ctx,
			`insert into recordings (name, blake3_hash) values ($1, $2)
			 on conflict (blake3_hash) do update set name = excluded.name
			 returning id, is_transcribed`,
			name,
			blake3Hash,
		).
		Scan(&res.ID, &isTranscribed)
	if err != nil {
		return res, fmt.Errorf("persisting recording into sqlite: %w", err)
	}

	res.IsTranscribed = isTranscribed == 1
	return res, nil
}

// SaveTranscript stores a finished transcript for a recording and marks it
// transcribed, in one transaction. Any previously cached lines for the
// recording are replaced.
func (s *Store) SaveTranscript(ctx context.Context, recordingID int64, t transcript.Transcript) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving transcript: begin trx: %w", err)
	}

	if err := saveLines(ctx, tx, recordingID, t); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback save transcript: %w", rbErr)
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		update recordings
		set is_transcribed = 1
		where id = $1
	`, recordingID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback update recording: %w", rbErr)
		}
		return fmt.Errorf("updating recording is_transcribed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving transcript: committing: %w", err)
	}
	return nil
}

func saveLines(ctx context.Context, tx *sql.Tx, recordingID int64, t transcript.Transcript) error {
	_, err := tx.ExecContext(ctx, "delete from lines where recording_id = $1", recordingID)
	if err != nil {
		return fmt.Errorf("clearing cached lines: %w", err)
	}
	if len(t) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`insert into lines (
		pos,
		recording_id,
		speaker,
		text,
		start_ms,
		end_ms) values `)

	args := make([]any, 0, 6*len(t))
	for n, line := range t {
		if n > 0 {
			b.WriteString(", ")
		}
		p := n * 6
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", p+1, p+2, p+3, p+4, p+5, p+6)
		args = append(args,
			line.Pos,
			recordingID,
			line.Speaker,
			line.Text,
			toMs(line.Start),
			toMs(line.End),
		)
	}

	if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("inserting lines: %w", err)
	}
	return nil
}

// LoadByHash returns the cached transcript for a recording hash, or
// ErrNotCached when the content was never transcribed to completion.
func (s *Store) LoadByHash(ctx context.Context, blake3Hash string) (Recording, transcript.Transcript, error) {
	var (
		rec           Recording
		isTranscribed uint8
	)
	err := s.db.
		QueryRowContext(
			ctx,
			"select id, name, blake3_hash, is_transcribed from recordings where blake3_hash = $1",
			blake3Hash,
		).
		Scan(&rec.ID, &rec.Name, &rec.Blake3Hash, &isTranscribed)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil, ErrNotCached
	}
	if err != nil {
		return rec, nil, fmt.Errorf("looking up recording by hash: %w", err)
	}
	rec.IsTranscribed = isTranscribed == 1
	if !rec.IsTranscribed {
		return rec, nil, ErrNotCached
	}

	rows, err := s.db.QueryContext(
		ctx,
		"select pos, speaker, text, start_ms, end_ms from lines where recording_id = $1 order by pos",
		rec.ID,
	)
	if err != nil {
		return rec, nil, fmt.Errorf("loading cached lines: %w", err)
	}
	defer rows.Close()

	var t transcript.Transcript
	for rows.Next() {
		var (
			line           transcript.Line
			startMs, endMs int64
		)
		if err := rows.Scan(&line.Pos, &line.Speaker, &line.Text, &startMs, &endMs); err != nil {
			return rec, nil, fmt.Errorf("scanning cached line: %w", err)
		}
		line.Start = float64(startMs) / 1000
		line.End = float64(endMs) / 1000
		t = append(t, line)
	}
	if err := rows.Err(); err != nil {
		return rec, nil, fmt.Errorf("loading cached lines: %w", err)
	}

	return rec, t, nil
}

func toMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
