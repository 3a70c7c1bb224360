package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"track-times/internal/domain"
)

type TimeResponse struct {
	ID         int64          `json:"id"`
	UserID     string         `json:"user_id"`
	Username   string         `json:"username"`
	Track      domain.Track   `json:"track"`
	Time       domain.LapTime `json:"time"`
	RecordedAt string         `json:"recorded_at"`
}

func (h *Handler) recordTime(c *gin.Context) {
	var req domain.TimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.UserID != callerUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	record, err := h.times.RecordTime(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, timeToResponse(*record))
}

func (h *Handler) listUserTimes(c *gin.Context) {
	records, err := h.times.ListUserTimes(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesToResponse(records))
}

func (h *Handler) listTracks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tracks": domain.Tracks()})
}

func (h *Handler) leaderboard(c *gin.Context) {
	track, ok := domain.ParseTrack(c.Param("track"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown track " + strconv.Quote(c.Param("track"))})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.times.Leaderboard(c.Request.Context(), track, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timesToResponse(records))
}

func timesToResponse(records []domain.Time) []TimeResponse {
	resp := make([]TimeResponse, len(records))
	for i := range records {
		resp[i] = timeToResponse(records[i])
	}
	return resp
}

func timeToResponse(record domain.Time) TimeResponse {
	return TimeResponse{
		ID:         record.ID,
		UserID:     record.UserID,
		Username:   record.Username,
		Track:      record.Track,
		Time:       record.Duration,
		RecordedAt: record.RecordedAt.UTC().Format(time.RFC3339),
	}
}
