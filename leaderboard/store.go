package leaderboard

import (
	"cmp"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/automoto/novadrop/shared/clock"
	"github.com/automoto/novadrop/shared/scoreapi"
)

// ErrUnavailable is returned when the backend cannot persist a change. The
// handlers answer 503.
var ErrUnavailable = errors.New("leaderboard storage unavailable")

// TopN is the leaderboard size.
const TopN = 5

// ScoreRecord is a stored score.
type ScoreRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email,omitempty"`
	Score     int       `json:"score"`
	ISOWeek   string    `json:"isoWeek"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRecord is a player. Users without an email are created per submission.
type UserRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Nickname  string    `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is the persisted form of the store.
type Snapshot struct {
	Scores []ScoreRecord `json:"scores"`
	Users  []UserRecord  `json:"users"`
}

// Backend persists snapshots.
type Backend interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Store keeps scores and users in memory and writes every change through to
// its backend. A failed write is rolled back.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	clock   clock.Clock

	scores  []ScoreRecord
	users   []UserRecord
	byEmail map[string]int // normalized email -> index into users
}

// NewStore loads the backend's snapshot.
func NewStore(backend Backend, clk clock.Clock) (*Store, error) {
	if clk == nil {
		clk = clock.System{}
	}
	snap, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s := &Store{
		backend: backend,
		clock:   clk,
		scores:  snap.Scores,
		users:   snap.Users,
		byEmail: make(map[string]int),
	}
	for i, u := range s.users {
		if u.Email != "" {
			s.byEmail[u.Email] = i
		}
	}
	log.Printf("[leaderboard] loaded %d scores, %d users", len(s.scores), len(s.users))
	return s, nil
}

func newID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}

// Submit stores a validated score and returns its placement within the week.
func (s *Store) Submit(p ScorePayload) (scoreapi.SubmitResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	userID, undoUser := s.upsertUserLocked(p.Email, p.Nickname, now)

	rec := ScoreRecord{
		ID:        newID(),
		UserID:    userID,
		Nickname:  p.Nickname,
		Email:     p.Email,
		Score:     p.Score,
		ISOWeek:   ISOWeek(now),
		CreatedAt: now,
	}
	s.scores = append(s.scores, rec)

	if err := s.saveLocked(); err != nil {
		s.scores = s.scores[:len(s.scores)-1]
		undoUser()
		return scoreapi.SubmitResponse{}, err
	}

	higher := 0
	for _, other := range s.scores {
		if other.ISOWeek == rec.ISOWeek && other.Score > rec.Score {
			higher++
		}
	}
	return scoreapi.SubmitResponse{
		Placement: higher + 1,
		ISOWeek:   rec.ISOWeek,
		Entry:     toEntry(rec),
	}, nil
}

// UpsertUser creates or updates the user keyed by a normalized email. An
// empty nickname keeps the stored one.
func (s *Store) UpsertUser(p UserPayload) (scoreapi.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, undo := s.upsertUserLocked(p.Email, p.Nickname, s.clock.Now().UTC())
	if err := s.saveLocked(); err != nil {
		undo()
		return scoreapi.User{}, err
	}
	u := s.users[s.byEmail[p.Email]]
	return scoreapi.User{ID: u.ID, Email: u.Email, Nickname: u.Nickname}, nil
}

// upsertUserLocked records the user and returns its ID and a function undoing
// the change. Anonymous users are always appended.
func (s *Store) upsertUserLocked(email, nickname string, now time.Time) (string, func()) {
	if email != "" {
		if i, ok := s.byEmail[email]; ok {
			prev := s.users[i]
			if nickname != "" {
				s.users[i].Nickname = nickname
			}
			s.users[i].UpdatedAt = now
			return prev.ID, func() { s.users[i] = prev }
		}
	}

	id := newID()
	s.users = append(s.users, UserRecord{
		ID:        id,
		Email:     email,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if email != "" {
		s.byEmail[email] = len(s.users) - 1
	}
	return id, func() {
		s.users = s.users[:len(s.users)-1]
		if email != "" {
			delete(s.byEmail, email)
		}
	}
}

func (s *Store) saveLocked() error {
	snap := Snapshot{Scores: s.scores, Users: s.users}
	if err := s.backend.Save(snap); err != nil {
		log.Printf("[leaderboard] save failed: %v", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Leaderboard returns the top TopN scores of a week, highest first; ties go
// to the earlier entry.
func (s *Store) Leaderboard(week string) scoreapi.Leaderboard {
	s.mu.RLock()
	var rows []ScoreRecord
	for _, rec := range s.scores {
		if rec.ISOWeek == week {
			rows = append(rows, rec)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(rows, func(a, b ScoreRecord) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}

	board := scoreapi.Leaderboard{ISOWeek: week, Entries: make([]scoreapi.RankedEntry, 0, len(rows))}
	for i, rec := range rows {
		board.Entries = append(board.Entries, scoreapi.RankedEntry{
			Rank:      i + 1,
			Nickname:  rec.Nickname,
			Score:     rec.Score,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return board
}

// CurrentWeek is the ISO week of the store's clock.
func (s *Store) CurrentWeek() string {
	return ISOWeek(s.clock.Now())
}

// Now exposes the store's clock to the handlers.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// Len returns the number of stored scores.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores)
}

func toEntry(rec ScoreRecord) scoreapi.Entry {
	return scoreapi.Entry{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Nickname:  rec.Nickname,
		Score:     rec.Score,
		ISOWeek:   rec.ISOWeek,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339Nano),
	}
}
