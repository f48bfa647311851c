package storage

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByColor    map[string]int `json:"wins_by_color"`
	DrawsByReason  map[string]int `json:"draws_by_reason"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByColor:   make(map[string]int),
		DrawsByReason: make(map[string]int),
	}
}

// GameResult is a finished game from the user's point of view.
type GameResult struct {
	Won      bool
	Draw     bool
	Color    string // "white" or "black", the side the user played
	Reason   string // how the game ended, e.g. "checkmate" or "stalemate"
	Duration time.Duration
}

// WinRate returns the win rate as a percentage (0-100)
func (s *GameStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// String summarizes the statistics on a few lines.
func (s *GameStats) String() string {
	return fmt.Sprintf("games %d  wins %d  losses %d  draws %d  win rate %.1f%%\nstreak %d  longest %d  time played %s",
		s.GamesPlayed, s.Wins, s.Losses, s.Draws, s.WinRate(),
		s.CurrentStreak, s.LongestWinStrk, s.TotalPlayTime.Round(time.Second))
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyStats, stats)
		return err
	})
	return stats, err
}

// RecordResult adds a completed game to the statistics.
func (s *Storage) RecordResult(result GameResult) (*GameStats, error) {
	var stats *GameStats
	err := s.db.Update(func(txn *badger.Txn) error {
		stats = NewGameStats()
		if _, err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}
		if stats.WinsByColor == nil {
			stats.WinsByColor = make(map[string]int)
		}
		if stats.DrawsByReason == nil {
			stats.DrawsByReason = make(map[string]int)
		}

		stats.GamesPlayed++
		stats.TotalPlayTime += result.Duration

		switch {
		case result.Draw:
			stats.Draws++
			stats.CurrentStreak = 0
			stats.DrawsByReason[result.Reason]++
		case result.Won:
			stats.Wins++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestWinStrk {
				stats.LongestWinStrk = stats.CurrentStreak
			}
			stats.WinsByColor[result.Color]++
		default:
			stats.Losses++
			stats.CurrentStreak = 0
		}

		return putJSON(txn, keyStats, stats)
	})
	if err != nil {
		return nil, fmt.Errorf("record result: %w", err)
	}
	return stats, nil
}
