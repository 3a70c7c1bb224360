package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track-times/internal/domain"
)

func TestRecordTime(t *testing.T) {
	env := newTestEnv(t, false)
	bobID, bobToken := env.signup(t, "bob")
	carolID, _ := env.signup(t, "carol")

	rec := env.do(t, http.MethodPost, "/api/times", gin.H{"userId": bobID, "track": "HURDLES", "time": "01:02.5"}, bobToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	record := decode[TimeResponse](t, rec)
	assert.Equal(t, domain.TrackHurdles, record.Track)
	assert.Equal(t, "01:02.500", record.Time.String())
	assert.Equal(t, "bob", record.Username)
	assert.Contains(t, rec.Body.String(), `"time":"01:02.500"`)

	tests := []struct {
		name   string
		body   any
		token  string
		status int
	}{
		{"no token", gin.H{"userId": bobID, "track": "SPRINT", "time": "00:10.000"}, "", http.StatusUnauthorized},
		{"bad token", gin.H{"userId": bobID, "track": "SPRINT", "time": "00:10.000"}, "garbage", http.StatusUnauthorized},
		{"other user", gin.H{"userId": carolID, "track": "SPRINT", "time": "00:10.000"}, bobToken, http.StatusForbidden},
		{"unknown track", gin.H{"userId": bobID, "track": "SWIM", "time": "00:10.000"}, bobToken, http.StatusBadRequest},
		{"bad time format", gin.H{"userId": bobID, "track": "SPRINT", "time": "ten seconds"}, bobToken, http.StatusBadRequest},
		{"numeric time", gin.H{"userId": bobID, "track": "SPRINT", "time": 10}, bobToken, http.StatusBadRequest},
		{"zero time", gin.H{"userId": bobID, "track": "SPRINT", "time": "00:00.000"}, bobToken, http.StatusBadRequest},
		{"missing time", gin.H{"userId": bobID, "track": "SPRINT"}, bobToken, http.StatusBadRequest},
		{"snake case user key", gin.H{"user_id": bobID, "track": "SPRINT", "time": "00:10.000"}, bobToken, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/times", tt.body, tt.token)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRecordTime_DeletedUser(t *testing.T) {
	env := newTestEnv(t, false)
	bobID, bobToken := env.signup(t, "bob")
	rec := env.do(t, http.MethodDelete, "/api/users/"+bobID, nil, bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/times", gin.H{"userId": bobID, "track": "SPRINT", "time": "00:10.000"}, bobToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUserTimes(t *testing.T) {
	env := newTestEnv(t, false)
	bobID, bobToken := env.signup(t, "bob")

	for _, lap := range []string{"00:12.000", "00:11.000"} {
		rec := env.do(t, http.MethodPost, "/api/times", gin.H{"userId": bobID, "track": "SPRINT", "time": lap}, bobToken)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/api/users/"+bobID+"/times", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[[]TimeResponse](t, rec)
	require.Len(t, records, 2)
	assert.Equal(t, "00:11.000", records[0].Time.String(), "newest first")

	rec = env.do(t, http.MethodGet, "/api/users/nobody/times", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTracks(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodGet, "/api/tracks", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Tracks(), decode[map[string][]domain.Track](t, rec)["tracks"])
}

func TestLeaderboard(t *testing.T) {
	env := newTestEnv(t, false)
	bobID, bobToken := env.signup(t, "bob")
	carolID, carolToken := env.signup(t, "carol")

	post := func(userID, token, track, lap string) {
		rec := env.do(t, http.MethodPost, "/api/times", gin.H{"userId": userID, "track": track, "time": lap}, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	post(bobID, bobToken, "SPRINT", "00:12.300")
	post(carolID, carolToken, "SPRINT", "00:11.900")
	post(bobID, bobToken, "SPRINT", "00:12.000")
	post(carolID, carolToken, "RELAY", "00:45.000")

	rec := env.do(t, http.MethodGet, "/api/tracks/sprint/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	board := decode[[]TimeResponse](t, rec)
	require.Len(t, board, 3)
	assert.Equal(t, "carol", board[0].Username)
	assert.Equal(t, "00:11.900", board[0].Time.String())
	assert.Equal(t, "00:12.000", board[1].Time.String())
	assert.Equal(t, "00:12.300", board[2].Time.String())

	rec = env.do(t, http.MethodGet, "/api/tracks/SPRINT/leaderboard?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]TimeResponse](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/tracks/HURDLES/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/tracks/SWIM/leaderboard", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/tracks/SPRINT/leaderboard?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
