package storage

import (
	"database/sql"
	"fmt"
)

// Snapshot slots.
const (
	SlotLocal = "local"
)

// SSHSlot returns the snapshot slot of an SSH user.
func SSHSlot(user string) string {
	return "ssh:" + user
}

// SaveSnapshot replaces the snapshot stored in slot.
func (s *Store) SaveSnapshot(slot string, fields map[string]string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM snapshots WHERE slot = ?", slot); err != nil {
			return fmt.Errorf("storage: cannot clear snapshot %s: %w", slot, err)
		}
		for key, value := range fields {
			if _, err := tx.Exec(
				"INSERT INTO snapshots (slot, key, value) VALUES (?, ?, ?)",
				slot, key, value,
			); err != nil {
				return fmt.Errorf("storage: cannot save snapshot %s: %w", slot, err)
			}
		}
		return nil
	})
}

// LoadSnapshot returns the snapshot stored in slot, or nil if there is none.
func (s *Store) LoadSnapshot(slot string) (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM snapshots WHERE slot = ?", slot)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshot: %w", err)
	}
	defer rows.Close()

	var fields map[string]string
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return fields, nil
}

// DeleteSnapshot removes the snapshot stored in slot.
func (s *Store) DeleteSnapshot(slot string) error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	return nil
}
