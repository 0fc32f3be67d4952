package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/identity"
	"booknest/internal/domains/vote/model"
	"booknest/internal/shared"
)

type recordingService struct {
	voter identity.Token
	err   error
}

func (s *recordingService) CastVote(_ context.Context, bookID uuid.UUID, voter identity.Token, req model.CastVoteRequest) (*model.VoteResponse, error) {
	s.voter = voter
	if s.err != nil {
		return nil, s.err
	}
	k := req.Kind
	return &model.VoteResponse{BookID: bookID, Vote: &k, Tally: aggregate.NewVoteTally(bookID, 1, 0)}, nil
}

func (s *recordingService) GetTally(_ context.Context, bookID uuid.UUID) (*aggregate.VoteTally, error) {
	if s.err != nil {
		return nil, s.err
	}
	tally := aggregate.NewVoteTally(bookID, 3, 1)
	return &tally, nil
}

func newRouter(svc *recordingService, session *shared.SessionUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVoteHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if session != nil {
			c.Set(shared.ContextKeySession, session)
		}
		c.Next()
	})
	r.POST("/books/:id/vote", h.CastVote)
	r.GET("/books/:id/votes", h.GetTally)
	return r
}

func TestCastVote_AnonymousVoterIsHashed(t *testing.T) {
	svc := &recordingService{}
	r := newRouter(svc, nil)
	bookID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/books/"+bookID.String()+"/vote", strings.NewReader(`{"kind":"upvote"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.voter.Anonymous)
	assert.Equal(t, identity.Hash("203.0.113.7", bookID.String()), svc.voter.Value)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Vote  string `json:"vote"`
			Tally struct {
				Score int `json:"score"`
			} `json:"tally"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "upvote", body.Data.Vote)
	assert.Equal(t, 1, body.Data.Tally.Score)
}

func TestCastVote_SessionVoterUsesAccount(t *testing.T) {
	svc := &recordingService{}
	r := newRouter(svc, &shared.SessionUser{AccountID: "acct-42"})

	req := httptest.NewRequest(http.MethodPost, "/books/"+uuid.NewString()+"/vote", strings.NewReader(`{"kind":"downvote"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, identity.Token{Value: "acct-42"}, svc.voter)
}

func TestCastVote_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{"bad id", "/books/not-a-uuid/vote", `{"kind":"upvote"}`, nil, http.StatusBadRequest},
		{"missing kind", "/books/" + uuid.NewString() + "/vote", `{}`, nil, http.StatusBadRequest},
		{"unknown book", "/books/" + uuid.NewString() + "/vote", `{"kind":"upvote"}`, shared.NewUnknownTargetError("book"), http.StatusBadRequest},
		{"conflict", "/books/" + uuid.NewString() + "/vote", `{"kind":"upvote"}`, shared.NewConflictError(nil), http.StatusConflict},
		{"store down", "/books/" + uuid.NewString() + "/vote", `{"kind":"upvote"}`, shared.NewStoreUnavailableError(nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&recordingService{err: tt.err}, nil)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetTally(t *testing.T) {
	r := newRouter(&recordingService{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/"+uuid.NewString()+"/votes", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"score":2`)
}
