package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/mnemos/pkg/controller/http"
	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"github.com/secmon-lab/mnemos/pkg/repository/memory"
	"github.com/secmon-lab/mnemos/pkg/usecase"
)

type stubCompletion struct {
	reply string
}

var _ interfaces.CompletionClient = &stubCompletion{}

func (s *stubCompletion) Generate(ctx context.Context, req *model.CompletionRequest) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T, repo interfaces.Repository) *httptest.Server {
	t.Helper()

	uc := usecase.New(repo, &stubCompletion{reply: "test reply"})
	srv := httptest.NewServer(httpctrl.New(":0", uc).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, memory.New())

	resp, err := http.Get(srv.URL + "/health")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
}

func TestChatEndpoint(t *testing.T) {
	repo := memory.New()
	srv := newTestServer(t, repo)

	body, _ := json.Marshal(map[string]string{
		"user_id": "user-1",
		"message": "this is awesome!!",
	})
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(body))
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

	var out struct {
		Reply string `json:"reply"`
		Tone  string `json:"tone"`
	}
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	gt.Value(t, out.Reply).Equal("test reply")
	gt.Value(t, out.Tone).Equal("excited")

	// The turn landed in the store
	messages, err := repo.History().Recent(context.Background(), "user-1", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, messages).Length(2)
}

func TestChatEndpointValidation(t *testing.T) {
	srv := newTestServer(t, memory.New())

	cases := []struct {
		name string
		body string
	}{
		{"empty message", `{"user_id":"user-1","message":""}`},
		{"empty user", `{"user_id":"","message":"hello"}`},
		{"not json", `not json at all`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(tc.body))
			gt.NoError(t, err).Required()
			defer resp.Body.Close()

			gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
		})
	}
}

func TestProfileEndpoint(t *testing.T) {
	repo := memory.New()
	srv := newTestServer(t, repo)

	ctx := context.Background()
	err := repo.Profile().ApplyUpdate(ctx, "user-1", &model.ProfileUpdate{
		Name:  "Alex",
		Facts: []string{"has a dog"},
	})
	gt.NoError(t, err).Required()

	resp, err := http.Get(srv.URL + "/api/users/user-1/profile")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

	var out struct {
		Profile struct {
			Name string `json:"Name"`
		} `json:"profile"`
		Stats struct {
			FactsStored int `json:"FactsStored"`
		} `json:"stats"`
	}
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	gt.Value(t, out.Profile.Name).Equal("Alex")
	gt.Value(t, out.Stats.FactsStored).Equal(1)
}

func TestHistoryEndpoint(t *testing.T) {
	repo := memory.New()
	srv := newTestServer(t, repo)

	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := repo.History().Append(ctx, "user-1", types.RoleUser, fmt.Sprintf("msg %d", i))
		gt.NoError(t, err).Required()
	}

	var out struct {
		Messages []struct {
			Content string `json:"Content"`
		} `json:"messages"`
	}

	resp, err := http.Get(srv.URL + "/api/users/user-1/history?limit=3")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	gt.Array(t, out.Messages).Length(3)
	gt.Value(t, out.Messages[2].Content).Equal("msg 11")

	// Default limit applies when the parameter is omitted
	resp, err = http.Get(srv.URL + "/api/users/user-1/history")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	out.Messages = nil
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	gt.Array(t, out.Messages).Length(10)
}

func TestHistoryEndpointBadLimit(t *testing.T) {
	srv := newTestServer(t, memory.New())

	resp, err := http.Get(srv.URL + "/api/users/user-1/history?limit=abc")
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	gt.Value(t, resp.StatusCode).Equal(http.StatusBadRequest)
}
