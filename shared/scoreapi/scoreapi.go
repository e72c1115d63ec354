// Package scoreapi defines the JSON payloads shared by the leaderboard service
// and the game client. It must have zero dependencies on ebiten or any graphics
// library so the service binary stays headless.
package scoreapi

// Paths served by the leaderboard service.
const (
	ScoresPath      = "/api/scores"
	LeaderboardPath = "/api/leaderboard"
	UsersPath       = "/api/users"
	HealthPath      = "/health"
)

// SubmitRequest is posted to ScoresPath when a run ends.
type SubmitRequest struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Email    string `json:"email,omitempty"`
}

// Entry is a stored score.
type Entry struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	Nickname  string `json:"nickname"`
	Score     int    `json:"score"`
	ISOWeek   string `json:"isoWeek"`
	CreatedAt string `json:"createdAt"`
}

// SubmitResponse is returned with 201 Created.
type SubmitResponse struct {
	Placement int    `json:"placement"`
	ISOWeek   string `json:"isoWeek"`
	Entry     Entry  `json:"entry"`
}

// RankedEntry is one leaderboard row.
type RankedEntry struct {
	Rank      int    `json:"rank"`
	Nickname  string `json:"nickname"`
	Score     int    `json:"score"`
	CreatedAt string `json:"createdAt"`
}

// Leaderboard is the top of one ISO week.
type Leaderboard struct {
	ISOWeek string        `json:"isoWeek"`
	Entries []RankedEntry `json:"entries"`
}

// UserRequest is posted to UsersPath to store contact details.
type UserRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
}

// User is the stored contact record.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
