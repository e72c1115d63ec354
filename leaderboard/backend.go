package leaderboard

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quasilyte/gdata"
)

const snapshotKey = "leaderboard"

// ItemStore is the subset of gdata.Manager the snapshot backend needs.
type ItemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// ItemBackend stores the snapshot as one JSON item.
type ItemBackend struct {
	items ItemStore
}

func NewItemBackend(items ItemStore) *ItemBackend {
	return &ItemBackend{items: items}
}

// OpenGdataBackend stores the snapshot in the gdata directory of appName.
func OpenGdataBackend(appName string) (*ItemBackend, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return NewItemBackend(m), nil
}

func (b *ItemBackend) Load() (Snapshot, error) {
	data, err := b.items.LoadItem(snapshotKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load item: %w", err)
	}
	if len(data) == 0 {
		return Snapshot{}, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

func (b *ItemBackend) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	if err := b.items.SaveItem(snapshotKey, data); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// MemoryBackend keeps the snapshot in memory. Setting Err makes every Save
// fail with it.
type MemoryBackend struct {
	mu    sync.Mutex
	snap  Snapshot
	saves int
	Err   error
}

func (b *MemoryBackend) Load() (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap, nil
}

func (b *MemoryBackend) Save(snap Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.snap = Snapshot{
		Scores: append([]ScoreRecord(nil), snap.Scores...),
		Users:  append([]UserRecord(nil), snap.Users...),
	}
	b.saves++
	return nil
}

// Saves returns the number of successful saves.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
