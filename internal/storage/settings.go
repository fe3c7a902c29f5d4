package storage

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Setting keys.
const (
	SettingLevel   = "level"
	SettingGame    = "game"
	SettingLongest = "longest"
)

// Settings are the preferences kept between runs.
type Settings struct {
	Level   int
	Game    string
	Longest string // digit-encoded sequence
}

// DefaultSettings are returned for keys never saved.
func DefaultSettings() Settings {
	return Settings{Level: 1, Game: "classic"}
}

// LoadSettings reads the saved preferences. Missing or malformed keys keep
// their defaults.
func (s *Store) LoadSettings() (Settings, error) {
	return s.LoadSettingsOr(DefaultSettings())
}

// LoadSettingsOr is LoadSettings with caller-supplied defaults, typically
// the values from the config file.
func (s *Store) LoadSettingsOr(settings Settings) (Settings, error) {

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return settings, fmt.Errorf("storage: cannot query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		switch key {
		case SettingLevel:
			if n, err := strconv.Atoi(value); err == nil {
				settings.Level = n
			}
		case SettingGame:
			if value != "" {
				settings.Game = value
			}
		case SettingLongest:
			settings.Longest = value
		}
	}

	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return settings, nil
}

// SaveSettings writes all preferences in one transaction.
func (s *Store) SaveSettings(settings Settings) error {
	return s.withTx(func(tx *sql.Tx) error {
		values := map[string]string{
			SettingLevel:   strconv.Itoa(settings.Level),
			SettingGame:    settings.Game,
			SettingLongest: settings.Longest,
		}
		for key, value := range values {
			if _, err := tx.Exec(
				`INSERT INTO settings (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				key, value,
			); err != nil {
				return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// ClearLongest forgets the saved longest sequence.
func (s *Store) ClearLongest() error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", SettingLongest); err != nil {
		return fmt.Errorf("storage: cannot clear longest sequence: %w", err)
	}
	return nil
}

func (s *Store) withTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}
