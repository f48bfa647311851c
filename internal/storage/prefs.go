package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrUnknownPreference is returned by Preferences.Set for an unknown key.
var ErrUnknownPreference = errors.New("unknown preference")

// UserPreferences stores user settings
type UserPreferences struct {
	Username        string    `json:"username"`
	Promotion       string    `json:"promotion"` // one of q, r, b, n
	ShowCoordinates bool      `json:"show_coordinates"`
	LastPlayed      time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:        "Player",
		Promotion:       "q",
		ShowCoordinates: true,
		LastPlayed:      time.Now(),
	}
}

// Set changes one preference from its text form.
func (p *UserPreferences) Set(key, value string) error {
	switch key {
	case "username":
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("username must not be empty")
		}
		p.Username = value
	case "promotion":
		v := strings.ToLower(strings.TrimSpace(value))
		switch v {
		case "q", "r", "b", "n":
			p.Promotion = v
		default:
			return fmt.Errorf("promotion must be one of q, r, b, n: %q", value)
		}
	case "show_coordinates":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("show_coordinates: %w", err)
		}
		p.ShowCoordinates = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPreference, key)
	}
	return nil
}

// String lists the preferences one per line.
func (p *UserPreferences) String() string {
	return fmt.Sprintf("username %s\npromotion %s\nshow_coordinates %t",
		p.Username, p.Promotion, p.ShowCoordinates)
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, keyPreferences, prefs)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyPreferences, prefs)
		return err
	})
	return prefs, err
}
