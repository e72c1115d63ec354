package leaderboard

import (
	"encoding/json"
	"errors"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	minNickname = 2
	maxNickname = 24
	maxEmail    = 254
	maxScore    = 1_000_000_000
)

// ValidationError is reported to the client with status 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// ScorePayload is a validated score submission.
type ScorePayload struct {
	Nickname string
	Score    int
	Email    string // normalized; empty when not given
}

// UserPayload is a validated contact submission.
type UserPayload struct {
	Email    string // normalized
	Nickname string
}

type rawScore struct {
	Nickname json.RawMessage `json:"nickname"`
	Score    json.RawMessage `json:"score"`
	Email    json.RawMessage `json:"email"`
}

type rawUser struct {
	Email    json.RawMessage `json:"email"`
	Nickname json.RawMessage `json:"nickname"`
}

// ParseScore validates a submission body. Fields are checked in order and the
// first problem is returned.
func ParseScore(body []byte) (ScorePayload, error) {
	var raw rawScore
	if err := decodeObject(body, &raw); err != nil {
		return ScorePayload{}, err
	}

	var p ScorePayload
	nickname, ok := rawString(raw.Nickname)
	if !ok {
		return p, invalid("Nickname is required")
	}
	if err := checkNickname(nickname); err != nil {
		return p, err
	}
	p.Nickname = nickname

	score, err := parseScore(raw.Score)
	if err != nil {
		return p, err
	}
	p.Score = score

	if email, ok := rawString(raw.Email); ok && email != "" {
		if err := checkEmail(email); err != nil {
			return p, err
		}
		p.Email = NormalizeEmail(email)
	}
	return p, nil
}

// ParseUser validates a contact body.
func ParseUser(body []byte) (UserPayload, error) {
	var raw rawUser
	if err := decodeObject(body, &raw); err != nil {
		return UserPayload{}, err
	}

	var p UserPayload
	email, ok := rawString(raw.Email)
	if !ok || email == "" {
		return p, invalid("Email is required")
	}
	if err := checkEmail(email); err != nil {
		return p, err
	}
	p.Email = NormalizeEmail(email)

	if nickname, ok := rawString(raw.Nickname); ok {
		if err := checkNickname(nickname); err != nil {
			return p, err
		}
		p.Nickname = nickname
	}
	return p, nil
}

// NormalizeEmail trims and lowercases an address for use as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func decodeObject(body []byte, v any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return invalid("Invalid JSON body")
	}
	return nil
}

// rawString unquotes a JSON string and trims it. Missing, null and non-string
// values report false.
func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func checkNickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < minNickname {
		return invalid("Nickname must be at least 2 characters")
	}
	if n > maxNickname {
		return invalid("Nickname must be 24 characters or fewer")
	}
	return nil
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return invalid("Email must be valid")
	}
	if len(email) > maxEmail {
		return invalid("Email must be 254 characters or fewer")
	}
	return nil
}

// parseScore accepts a JSON number or a numeric string.
func parseScore(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, invalid("Score is required")
	}
	text := string(raw)
	if s, ok := rawString(raw); ok {
		text = s
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, invalid("Score is unreasonably large")
		}
		return 0, invalid("Score must be a number")
	}
	if f != math.Trunc(f) {
		return 0, invalid("Score must be an integer")
	}
	if f < 0 {
		return 0, invalid("Score cannot be negative")
	}
	if f > maxScore {
		return 0, invalid("Score is unreasonably large")
	}
	return int(f), nil
}
