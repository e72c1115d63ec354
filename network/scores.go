package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/automoto/novadrop/shared/scoreapi"
)

var (
	ErrNicknameRequired = errors.New("nickname is required")
	ErrEmailRequired    = errors.New("email is required")
)

const maxResponseBody = 1 << 16 // 64 KB

// APIError carries a message fit to show the player.
type APIError struct {
	Status  int // 0 when the service was never reached
	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.Err }

// failureText holds the player-facing messages for one endpoint.
type failureText struct {
	unreachable string
	invalid     string
	badRequest  string
	unavailable string
	fallback    string
}

var (
	scoreText = failureText{
		unreachable: "Unable to reach score service",
		invalid:     "Score service returned an invalid response",
		badRequest:  "Please check your nickname and try again",
		unavailable: "Score service is temporarily unavailable",
		fallback:    "Failed to submit score",
	}
	boardText = failureText{
		unreachable: "Unable to reach leaderboard service",
		invalid:     "Received an invalid leaderboard response",
		badRequest:  "Failed to load leaderboard",
		unavailable: "Leaderboard is temporarily unavailable",
		fallback:    "Failed to load leaderboard",
	}
	userText = failureText{
		unreachable: "Unable to reach signup service",
		invalid:     "Signup service returned an invalid response",
		badRequest:  "Please double-check your email",
		unavailable: "Signup service is temporarily unavailable",
		fallback:    "Failed to save your info",
	}
)

// ScoreClient talks JSON to the leaderboard service.
type ScoreClient struct {
	baseURL string
	client  *http.Client
}

func NewScoreClient(baseURL string) *ScoreClient {
	return &ScoreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// SubmitScore posts a final score. Cancelling ctx returns ctx.Err() unwrapped.
func (c *ScoreClient) SubmitScore(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error) {
	req.Nickname = strings.TrimSpace(req.Nickname)
	req.Email = strings.TrimSpace(req.Email)
	if req.Nickname == "" {
		return scoreapi.SubmitResponse{}, ErrNicknameRequired
	}

	var resp scoreapi.SubmitResponse
	if err := c.do(ctx, http.MethodPost, scoreapi.ScoresPath, req, &resp, scoreText); err != nil {
		return scoreapi.SubmitResponse{}, err
	}
	if resp.Entry.Nickname == "" {
		resp.Entry.Nickname = req.Nickname
	}
	return resp, nil
}

// Leaderboard fetches the top of an ISO week; an empty week asks for the
// current one.
func (c *ScoreClient) Leaderboard(ctx context.Context, week string) (scoreapi.Leaderboard, error) {
	path := scoreapi.LeaderboardPath
	if week != "" {
		path += "?" + url.Values{"week": {week}}.Encode()
	}

	var board scoreapi.Leaderboard
	if err := c.do(ctx, http.MethodGet, path, nil, &board, boardText); err != nil {
		return scoreapi.Leaderboard{}, err
	}
	for i := range board.Entries {
		if board.Entries[i].Nickname == "" {
			board.Entries[i].Nickname = "Mystery Player"
		}
	}
	return board, nil
}

// SaveContact stores an email, and optionally a nickname, for the player.
func (c *ScoreClient) SaveContact(ctx context.Context, req scoreapi.UserRequest) (scoreapi.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Email == "" {
		return scoreapi.User{}, ErrEmailRequired
	}

	var user scoreapi.User
	if err := c.do(ctx, http.MethodPost, scoreapi.UsersPath, req, &user, userText); err != nil {
		return scoreapi.User{}, err
	}
	return user, nil
}

// Health reports whether the service answers.
func (c *ScoreClient) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, scoreapi.HealthPath, nil, &status, boardText); err != nil {
		return err
	}
	if status.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", status.Status)
	}
	return nil
}

func (c *ScoreClient) do(ctx context.Context, method, path string, body, out any, text failureText) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Message: text.unreachable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Status: resp.StatusCode, Message: text.invalid, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr scoreapi.ErrorResponse
		msg := ""
		if json.Unmarshal(raw, &apiErr) == nil {
			msg = apiErr.Error
		}
		if msg == "" {
			switch resp.StatusCode {
			case http.StatusBadRequest:
				msg = text.badRequest
			case http.StatusServiceUnavailable:
				msg = text.unavailable
			default:
				msg = text.fallback
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: text.invalid, Err: err}
	}
	return nil
}
