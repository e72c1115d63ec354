package leaderboard

import (
	"errors"
	"strings"
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    ScorePayload
		wantErr string
	}{
		{"valid", `{"nickname":"  tester ","score":1200}`, ScorePayload{Nickname: "tester", Score: 1200}, ""},
		{"string score", `{"nickname":"tester","score":"42"}`, ScorePayload{Nickname: "tester", Score: 42}, ""},
		{"email normalized", `{"nickname":"tester","score":1,"email":" Tester@Example.COM "}`, ScorePayload{Nickname: "tester", Score: 1, Email: "tester@example.com"}, ""},
		{"blank email ignored", `{"nickname":"tester","score":1,"email":"   "}`, ScorePayload{Nickname: "tester", Score: 1}, ""},
		{"empty body", ``, ScorePayload{}, "Nickname is required"},
		{"bad json", `{"nickname":`, ScorePayload{}, "Invalid JSON body"},
		{"short nickname", `{"nickname":" a ","score":1}`, ScorePayload{}, "Nickname must be at least 2 characters"},
		{"long nickname", `{"nickname":"` + strings.Repeat("x", 25) + `","score":1}`, ScorePayload{}, "Nickname must be 24 characters or fewer"},
		{"missing score", `{"nickname":"tester"}`, ScorePayload{}, "Score is required"},
		{"fractional score", `{"nickname":"tester","score":1.5}`, ScorePayload{}, "Score must be an integer"},
		{"negative score", `{"nickname":"tester","score":-1}`, ScorePayload{}, "Score cannot be negative"},
		{"huge score", `{"nickname":"tester","score":1000000001}`, ScorePayload{}, "Score is unreasonably large"},
		{"non numeric score", `{"nickname":"tester","score":"lots"}`, ScorePayload{}, "Score must be a number"},
		{"bad email", `{"nickname":"tester","score":1,"email":"not-an-email"}`, ScorePayload{}, "Email must be valid"},
		{"long email", `{"nickname":"tester","score":1,"email":"` + strings.Repeat("a", 250) + `@b.co"}`, ScorePayload{}, "Email must be 254 characters or fewer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScore([]byte(tt.body))
			if tt.wantErr != "" {
				var vErr *ValidationError
				if !errors.As(err, &vErr) || vErr.Message != tt.wantErr {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNicknameCountsRunes(t *testing.T) {
	if _, err := ParseScore([]byte(`{"nickname":"` + strings.Repeat("é", 24) + `","score":1}`)); err != nil {
		t.Errorf("24 two-byte runes rejected: %v", err)
	}
}

func TestParseUser(t *testing.T) {
	p, err := ParseUser([]byte(`{"email":" A@B.co ","nickname":"tester"}`))
	if err != nil {
		t.Fatalf("ParseUser: %v", err)
	}
	if p.Email != "a@b.co" || p.Nickname != "tester" {
		t.Errorf("got %+v", p)
	}

	cases := []struct{ body, want string }{
		{`{}`, "Email is required"},
		{`{"email":"nope"}`, "Email must be valid"},
		{`{"email":"a@b.co","nickname":"x"}`, "Nickname must be at least 2 characters"},
	}
	for _, c := range cases {
		_, err := ParseUser([]byte(c.body))
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Message != c.want {
			t.Errorf("ParseUser(%s) err = %v, want %q", c.body, err, c.want)
		}
	}
}
