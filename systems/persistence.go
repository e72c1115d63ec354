package systems

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

// ItemStore is the subset of gdata.Manager used for local saves.
type ItemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

const profileKey = "profile"

// SavedProfile is the local player profile stored on disk
type SavedProfile struct {
	Nickname    string `json:"nickname"`
	Email       string `json:"email,omitempty"`
	BestScore   int    `json:"bestScore"`
	GamesPlayed int    `json:"gamesPlayed"`
	Muted       bool   `json:"muted"`
}

// ProfileStore loads and saves the local profile. A nil store is valid and
// behaves as an always-empty profile so the game runs without persistence.
type ProfileStore struct {
	items ItemStore
}

func NewProfileStore(items ItemStore) *ProfileStore {
	return &ProfileStore{items: items}
}

// OpenProfileStore initializes the gdata manager for profile storage
func OpenProfileStore(appName string) (*ProfileStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	return NewProfileStore(m), nil
}

// Load returns the saved profile, or a zero profile when none exists yet.
func (s *ProfileStore) Load() (*SavedProfile, error) {
	if s == nil || s.items == nil {
		return &SavedProfile{}, nil
	}

	data, err := s.items.LoadItem(profileKey)
	if err != nil {
		log.Printf("Warning: Could not load profile: %v", err)
		return &SavedProfile{}, nil
	}
	if len(data) == 0 {
		// No saved profile yet, use defaults
		return &SavedProfile{}, nil
	}

	var p SavedProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return &SavedProfile{}, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile to disk
func (s *ProfileStore) Save(p *SavedProfile) error {
	if s == nil || s.items == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}
	if err := s.items.SaveItem(profileKey, data); err != nil {
		log.Printf("Warning: Could not save profile: %v", err)
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// RecordGame counts a finished game and keeps the best score. A profile that
// fails to parse is replaced by a fresh one. It reports
// whether score is a new personal best.
func (s *ProfileStore) RecordGame(score int) (bool, error) {
	p, err := s.Load()
	if err != nil {
		log.Printf("Warning: Discarding unreadable profile: %v", err)
	}
	p.GamesPlayed++
	best := score > p.BestScore
	if best {
		p.BestScore = score
	}
	return best, s.Save(p)
}
