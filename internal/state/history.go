package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/wavedeck/internal/db"
)

// PlayHistoryEntry is one completed listen.
type PlayHistoryEntry struct {
	TrackID       int64 // 0 when the track is not in the library
	Path          string
	PlayedAt      time.Time
	SecondsPlayed float64
	PercentPlayed float64 // 0-100
	SessionID     string
	Device        string
	OS            string
	AppVersion    string
}

// AddPlayHistory appends entry to the listening history.
func (m *Manager) AddPlayHistory(ctx context.Context, e PlayHistoryEntry) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO play_history
		(track_id, path, played_at, seconds_played, percent_played, session_id, device, os, app_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, db.Null(e.TrackID), e.Path, e.PlayedAt.Unix(), e.SecondsPlayed, e.PercentPlayed,
		e.SessionID, e.Device, e.OS, e.AppVersion)
	return errors.Wrap(err, "insert play history")
}

// RecentPlayHistory returns up to limit entries, newest first.
func (m *Manager) RecentPlayHistory(ctx context.Context, limit int) ([]PlayHistoryEntry, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT track_id, path, played_at, seconds_played, percent_played,
		       session_id, device, os, app_version
		FROM play_history
		ORDER BY played_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query play history")
	}
	defer rows.Close()

	var entries []PlayHistoryEntry
	for rows.Next() {
		var (
			e                   PlayHistoryEntry
			trackID             sql.Null[int64]
			playedAt            int64
			device, osName, ver sql.Null[string]
		)
		if err := rows.Scan(&trackID, &e.Path, &playedAt, &e.SecondsPlayed, &e.PercentPlayed,
			&e.SessionID, &device, &osName, &ver); err != nil {
			return nil, errors.Wrap(err, "scan play history")
		}
		e.TrackID = db.Value(trackID)
		e.PlayedAt = time.Unix(playedAt, 0)
		e.Device = db.Value(device)
		e.OS = db.Value(osName)
		e.AppVersion = db.Value(ver)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
