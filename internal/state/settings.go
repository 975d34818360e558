package state

import (
	"database/sql"
	"strconv"

	"github.com/cockroachdb/errors"
)

const (
	keyVolume      = "volume"
	keyLastSession = "last_session"
)

func (m *Manager) getSetting(key string) (string, bool, error) {
	var v string
	err := m.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "read setting %s", key)
	}
	return v, true, nil
}

func (m *Manager) setSetting(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return errors.Wrapf(err, "write setting %s", key)
}

// GetVolume returns the saved volume (0-100). ok is false when none was
// saved yet.
func (m *Manager) GetVolume() (int, bool, error) {
	s, ok, err := m.getSetting(keyVolume)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, errors.Wrapf(err, "parse volume %q", s)
	}
	return v, true, nil
}

// SaveVolume persists the volume level.
func (m *Manager) SaveVolume(v int) error {
	return m.setSetting(keyVolume, strconv.Itoa(v))
}

// GetLastSession returns the marker of the last saved session.
func (m *Manager) GetLastSession() (string, bool, error) {
	return m.getSetting(keyLastSession)
}

// SaveLastSession records the marker of the session just saved.
func (m *Manager) SaveLastSession(marker string) error {
	return m.setSetting(keyLastSession, marker)
}
