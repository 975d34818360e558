// Package library answers path lookups against the library_tracks table.
package library

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	dbutil "github.com/llehouerou/wavedeck/internal/db"
)

// ErrNotFound is returned when no library track matches a path.
var ErrNotFound = errors.New("track not in library")

// lookupBatch bounds the number of bound parameters per query.
const lookupBatch = 500

// Item is one library track.
type Item struct {
	ID       int64
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	AddedAt  time.Time
}

type Library struct {
	db *sql.DB
}

func New(db *sql.DB) *Library {
	return &Library{db: db}
}

const selectColumns = `SELECT id, path, title, artist, album, duration_ms, added_at FROM library_tracks`

// Existing returns the library items matching paths, keyed by the input
// path. Matching ignores ASCII case; an exact match wins over a case-folded
// one. Paths absent from the library are missing from the result.
func (l *Library) Existing(ctx context.Context, paths []string) (map[string]Item, error) {
	found := make(map[string]Item, len(paths))
	for start := 0; start < len(paths); start += lookupBatch {
		batch := paths[start:min(start+lookupBatch, len(paths))]
		if err := l.lookup(ctx, batch, found); err != nil {
			return nil, err
		}
	}
	return found, nil
}

func (l *Library) lookup(ctx context.Context, paths []string, found map[string]Item) error {
	args := make([]any, len(paths))
	for i, p := range paths {
		args[i] = p
	}
	rows, err := l.db.QueryContext(ctx,
		selectColumns+` WHERE path COLLATE NOCASE IN (`+dbutil.Placeholders(len(paths))+`)`, args...)
	if err != nil {
		return errors.Wrap(err, "query library paths")
	}
	defer rows.Close()

	exact := make(map[string]Item)
	folded := make(map[string]Item)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return err
		}
		exact[it.Path] = it
		folded[strings.ToLower(it.Path)] = it
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "iterate library paths")
	}

	for _, p := range paths {
		if it, ok := exact[p]; ok {
			found[p] = it
		} else if it, ok := folded[strings.ToLower(p)]; ok {
			found[p] = it
		}
	}
	return nil
}

// ByPath returns the item for path, ignoring ASCII case.
func (l *Library) ByPath(ctx context.Context, path string) (*Item, error) {
	row := l.db.QueryRowContext(ctx,
		selectColumns+` WHERE path = ? COLLATE NOCASE ORDER BY path = ? DESC LIMIT 1`, path, path)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Upsert inserts or updates the item keyed by its path and returns its ID.
func (l *Library) Upsert(ctx context.Context, it Item) (int64, error) {
	if it.Path == "" {
		return 0, errors.New("library item without path")
	}
	var id int64
	err := dbutil.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO library_tracks (path, title, artist, album, duration_ms, added_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				title = excluded.title,
				artist = excluded.artist,
				album = excluded.album,
				duration_ms = excluded.duration_ms
		`, it.Path, dbutil.Null(it.Title), dbutil.Null(it.Artist),
			dbutil.Null(it.Album), it.Duration.Milliseconds(), time.Now().Unix())
		if err != nil {
			return errors.Wrap(err, "upsert library track")
		}
		return tx.QueryRowContext(ctx, `SELECT id FROM library_tracks WHERE path = ?`, it.Path).Scan(&id)
	})
	return id, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (Item, error) {
	var (
		it                   Item
		title, artist, album sql.Null[string]
		durationMS, addedAt  int64
	)
	if err := s.Scan(&it.ID, &it.Path, &title, &artist, &album, &durationMS, &addedAt); err != nil {
		return Item{}, err
	}
	it.Title = dbutil.Value(title)
	it.Artist = dbutil.Value(artist)
	it.Album = dbutil.Value(album)
	it.Duration = time.Duration(durationMS) * time.Millisecond
	it.AddedAt = time.Unix(addedAt, 0)
	return it, nil
}
