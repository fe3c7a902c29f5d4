package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Game outcomes.
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
)

// Result is one finished game.
type Result struct {
	ID        int64
	RunID     string // session that played it
	Game      string
	Level     int
	Target    int
	Length    int
	Outcome   string
	Sequence  string
	CreatedAt time.Time
}

// GameStats contains aggregated statistics for a ruleset.
type GameStats struct {
	Game       string
	GamesCount int
	Wins       int
	BestLength int
	AvgLength  float64
	LastPlayed time.Time
}

// SaveResult records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results (run_id, game, level, target, length, outcome, sequence)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Game, r.Level, r.Target, r.Length, r.Outcome, r.Sequence,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopResults retrieves the longest N games of the given ruleset.
// Ties go to the earlier game.
func (s *Store) TopResults(game string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, game, level, target, length, outcome, sequence, created_at
		 FROM results
		 WHERE game = ?
		 ORDER BY length DESC, id ASC
		 LIMIT ?`,
		game, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(&r.ID, &r.RunID, &r.Game, &r.Level, &r.Target, &r.Length,
			&r.Outcome, &r.Sequence, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// LastResult returns the most recent game of any ruleset, or nil.
func (s *Store) LastResult() (*Result, error) {
	var r Result
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, run_id, game, level, target, length, outcome, sequence, created_at
		 FROM results
		 ORDER BY id DESC
		 LIMIT 1`,
	).Scan(&r.ID, &r.RunID, &r.Game, &r.Level, &r.Target, &r.Length, &r.Outcome, &r.Sequence, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query last result: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// BestLength returns the longest sequence reached in the given ruleset.
// Returns 0 if no games exist.
func (s *Store) BestLength(game string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(length) FROM results WHERE game = ?",
		game,
	).Scan(&best)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best length: %w", err)
	}

	if !best.Valid {
		return 0, nil
	}

	return int(best.Int64), nil
}

// ClearResults deletes all results of the given ruleset.
func (s *Store) ClearResults(game string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE game = ?", game)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// GetGameStats retrieves aggregated statistics for a ruleset.
func (s *Store) GetGameStats(game string) (*GameStats, error) {
	stats := &GameStats{Game: game}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(length), 0),
		        COALESCE(AVG(length), 0),
		        MAX(created_at)
		 FROM results WHERE game = ?`,
		OutcomeWon, game,
	).Scan(&stats.GamesCount, &stats.Wins, &stats.BestLength, &stats.AvgLength, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllGamesStats retrieves statistics for every ruleset that has been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game, COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        MAX(length), AVG(length), MAX(created_at)
		 FROM results
		 GROUP BY game`,
		OutcomeWon,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.Game, &gs.GamesCount, &gs.Wins, &gs.BestLength, &gs.AvgLength, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.Game] = &gs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
