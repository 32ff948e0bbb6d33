package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vovakirdan/minebombers/internal/game"
)

// TournamentEntry is a finished tournament with its final standings.
type TournamentEntry struct {
	ID           int64
	Rounds       int
	WinCondition string
	Winner       string
	Players      []game.TournamentPlayer
	CreatedAt    time.Time
}

// SaveCampaign implements game.ResultSink.
func (s *Store) SaveCampaign(r game.CampaignResult) error {
	_, err := s.SaveScore(game.ModeCampaign, r.Player, r.Level, r.Cash)
	return err
}

// SaveTournament implements game.ResultSink. The standings and the merged
// roster statistics are written in one transaction.
func (s *Store) SaveTournament(r game.TournamentResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		"INSERT INTO tournaments (rounds, win_condition, winner) VALUES (?, ?, ?)",
		r.Rounds, r.Win.String(), r.Winner,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save tournament: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, p := range r.Players {
		if _, err := tx.Exec(
			`INSERT INTO tournament_players (tournament_id, rank, name, cash, rounds_won)
			 VALUES (?, ?, ?, ?, ?)`,
			id, p.Rank, p.Name, p.Cash, p.RoundsWon,
		); err != nil {
			return fmt.Errorf("storage: cannot save tournament player: %w", err)
		}
	}

	if err := upsertRoster(tx, r.Roster); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit tournament: %w", err)
	}
	return nil
}

var _ game.ResultSink = (*Store)(nil)

// RecentTournaments retrieves the most recent tournaments, newest first.
func (s *Store) RecentTournaments(limit int) ([]TournamentEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, rounds, win_condition, winner, created_at
		 FROM tournaments
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tournaments: %w", err)
	}

	var entries []TournamentEntry
	for rows.Next() {
		var e TournamentEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Rounds, &e.WinCondition, &e.Winner, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range entries {
		players, err := s.tournamentPlayers(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Players = players
	}
	return entries, nil
}

func (s *Store) tournamentPlayers(id int64) ([]game.TournamentPlayer, error) {
	rows, err := s.db.Query(
		`SELECT rank, name, cash, rounds_won
		 FROM tournament_players
		 WHERE tournament_id = ?
		 ORDER BY rank`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tournament players: %w", err)
	}
	defer rows.Close()

	var players []game.TournamentPlayer
	for rows.Next() {
		var p game.TournamentPlayer
		if err := rows.Scan(&p.Rank, &p.Name, &p.Cash, &p.RoundsWon); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return players, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
