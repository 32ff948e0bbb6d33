package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minebombers/internal/game"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game-path]",
	Short: "Show the hall of fame",
	Long: `Display the campaign hall of fame of the installation (HIGHSCOR.DAT)
and the best campaign results recorded in the scores database.

Examples:
  minebombers scores
  minebombers scores ~/games/mb --db ./scores.db`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var rosterCmd = &cobra.Command{
	Use:   "roster [game-path]",
	Short: "Show player statistics",
	Long:  `Display the tournament statistics of the players in PLAYERS.DAT.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runRoster,
}

func runScores(_ *cobra.Command, args []string) {
	dir := mustOpenGameDir(args)

	hs, err := dir.Highscores()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Hall of Fame")
	fmt.Println()
	fmt.Printf("  %-4s  %-18s  %-5s  %s\n", "Rank", "Name", "Level", "Cash")
	fmt.Printf("  %-4s  %-18s  %-5s  %s\n", "----", "----", "-----", "----")
	for i, s := range hs.Scores {
		if s == nil {
			continue
		}
		fmt.Printf("  %-4d  %-18s  %-5d  $%d\n", i+1, s.Name, s.Level, s.Cash)
	}

	store := openStore()
	if store == nil {
		return
	}
	defer closeStore(store)

	scores, err := store.TopScores(game.ModeCampaign, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Recorded Campaigns")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'minebombers play --mode campaign' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-18s  %-5s  %-10s  %s\n", "Rank", "Player", "Level", "Cash", "Date")
	fmt.Printf("  %-4s  %-18s  %-5s  %-10s  %s\n", "----", "------", "-----", "----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-18s  %-5d  %-10s  %s\n", i+1, entry.Player, entry.Level, fmt.Sprintf("$%d", entry.Cash), dateStr)
	}
}

func runRoster(_ *cobra.Command, args []string) {
	dir := mustOpenGameDir(args)

	roster, err := dir.Roster()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Players")
	fmt.Println()
	fmt.Printf("  %-24s  %5s  %5s  %6s  %6s  %9s  %6s  %6s\n",
		"Name", "Tourn", "Won", "Rounds", "Won", "Money", "Bombs", "Deaths")

	count := 0
	for _, s := range roster.Players {
		if s == nil {
			continue
		}
		count++
		fmt.Printf("  %-24s  %5d  %5d  %6d  %6d  %9d  %6d  %6d\n",
			s.Name, s.Tournaments, s.TournamentsWins, s.Rounds, s.RoundsWins,
			s.TotalMoney, s.BombsDropped, s.Deaths)
	}

	if count == 0 {
		fmt.Println()
		fmt.Println("No players yet. Play a tournament to create some.")
	}
}
