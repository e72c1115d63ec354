package leaderboard

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/automoto/novadrop/shared/scoreapi"
)

const maxRequestBody = 1 << 16 // 64 KB

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-store")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[leaderboard] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, scoreapi.ErrorResponse{Error: msg})
}

// writeFailure maps validation and storage errors to 400 and 503.
func writeFailure(w http.ResponseWriter, err error, fallback string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Leaderboard storage is unavailable")
	default:
		log.Printf("[leaderboard] %s: %v", fallback, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, invalid("Request body too large")
	}
	return body, nil
}

func SubmitScore(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)

		body, err := readBody(w, r)
		if err != nil {
			writeFailure(w, err, "Unexpected error")
			return
		}
		payload, err := ParseScore(body)
		if err != nil {
			writeFailure(w, err, "Unexpected error")
			return
		}

		resp, err := store.Submit(payload)
		if err != nil {
			writeFailure(w, err, "Failed to store score")
			return
		}

		log.Printf("[leaderboard] %q scored %d (week %s, #%d)", payload.Nickname, payload.Score, resp.ISOWeek, resp.Placement)
		writeJSON(w, http.StatusCreated, resp)
	}
}

func GetLeaderboard(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)
		week := NormalizeWeek(r.URL.Query().Get("week"), store.Now())
		writeJSON(w, http.StatusOK, store.Leaderboard(week))
	}
}

func UpsertUser(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)

		body, err := readBody(w, r)
		if err != nil {
			writeFailure(w, err, "Unexpected error")
			return
		}
		payload, err := ParseUser(body)
		if err != nil {
			writeFailure(w, err, "Unexpected error")
			return
		}

		user, err := store.UpsertUser(payload)
		if err != nil {
			writeFailure(w, err, "Failed to store user contact info")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// NewMux routes every endpoint. Wrong methods get 405 from the mux.
func NewMux(store *Store) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+scoreapi.ScoresPath, SubmitScore(store))
	mux.HandleFunc("GET "+scoreapi.LeaderboardPath, GetLeaderboard(store))
	mux.HandleFunc("POST "+scoreapi.UsersPath, UpsertUser(store))
	mux.HandleFunc("GET "+scoreapi.HealthPath, Health())
	return mux
}
