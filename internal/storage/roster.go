package storage

import (
	"fmt"

	"github.com/vovakirdan/minebombers/internal/world"
)

// UpsertRoster stores the given player statistics, replacing the rows of
// players with the same name.
func (s *Store) UpsertRoster(stats []world.Stats) error {
	return upsertRoster(s.db, stats)
}

func upsertRoster(db execer, stats []world.Stats) error {
	for _, st := range stats {
		_, err := db.Exec(
			`INSERT INTO roster (name, tournaments, tournaments_wins, rounds, rounds_wins,
			                     treasures_collected, total_money, bombs_bought, bombs_dropped,
			                     deaths, meters_ran, history)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET
			   tournaments = excluded.tournaments,
			   tournaments_wins = excluded.tournaments_wins,
			   rounds = excluded.rounds,
			   rounds_wins = excluded.rounds_wins,
			   treasures_collected = excluded.treasures_collected,
			   total_money = excluded.total_money,
			   bombs_bought = excluded.bombs_bought,
			   bombs_dropped = excluded.bombs_dropped,
			   deaths = excluded.deaths,
			   meters_ran = excluded.meters_ran,
			   history = excluded.history,
			   updated_at = CURRENT_TIMESTAMP`,
			st.Name, st.Tournaments, st.TournamentsWins, st.Rounds, st.RoundsWins,
			st.TreasuresCollected, st.TotalMoney, st.BombsBought, st.BombsDropped,
			st.Deaths, st.MetersRan, st.History[:],
		)
		if err != nil {
			return fmt.Errorf("storage: cannot upsert roster entry %q: %w", st.Name, err)
		}
	}
	return nil
}

// Roster returns the mirrored player statistics, richest first.
func (s *Store) Roster() ([]world.Stats, error) {
	rows, err := s.db.Query(
		`SELECT name, tournaments, tournaments_wins, rounds, rounds_wins,
		        treasures_collected, total_money, bombs_bought, bombs_dropped,
		        deaths, meters_ran, history
		 FROM roster
		 ORDER BY total_money DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query roster: %w", err)
	}
	defer rows.Close()

	var out []world.Stats
	for rows.Next() {
		var (
			st      world.Stats
			history []byte
		)
		if err := rows.Scan(
			&st.Name, &st.Tournaments, &st.TournamentsWins, &st.Rounds, &st.RoundsWins,
			&st.TreasuresCollected, &st.TotalMoney, &st.BombsBought, &st.BombsDropped,
			&st.Deaths, &st.MetersRan, &history,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		copy(st.History[:], history)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
