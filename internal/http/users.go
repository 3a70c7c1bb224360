package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"track-times/internal/domain"
	"track-times/internal/exporter"
)

// UserResponse is the public view of a user; it never carries the password hash.
type UserResponse struct {
	ID       int64  `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func (h *Handler) createUser(c *gin.Context) {
	var dto domain.UserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), dto)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.userToResponse(user))
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.FindUserByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      h.userToResponse(user),
	})
}

// deleteUser stops the user's export jobs, optionally removes their uploaded
// objects, then deletes the user. Times and exports cascade in the store.
func (h *Handler) deleteUser(c *gin.Context) {
	userID := c.Param("userId")

	deleteRemote, err := strconv.ParseBool(c.DefaultQuery("delete_remote", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag delete_remote"})
		return
	}
	if deleteRemote && (h.storage == nil || h.bucket == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storage service not configured"})
		return
	}

	if _, err := h.users.FindUserByUserID(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	var warnings []string
	if h.manager != nil {
		warnings = append(warnings, h.cancelExports(c.Request.Context(), userID)...)
	}

	if deleteRemote {
		remoteCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if err := h.storage.DeletePrefix(remoteCtx, h.bucket, exporter.UserPrefix(h.keyPrefix, userID)); err != nil {
			warnings = append(warnings, fmt.Sprintf("delete remote data: %v", err))
		}
	}

	if err := h.users.DeleteUser(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"deleted": userID}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) cancelExports(ctx context.Context, userID string) []string {
	exports, err := h.exports.ListExports(ctx, userID)
	if err != nil {
		return []string{fmt.Sprintf("list exports: %v", err)}
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var warnings []string
	for _, export := range exports {
		if export.Status != domain.ExportStatusPending && export.Status != domain.ExportStatusRunning {
			continue
		}
		if err := h.manager.Cancel(cancelCtx, export.ID); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			warnings = append(warnings, fmt.Sprintf("cancel export %d: %v", export.ID, err))
		}
	}
	return warnings
}

func (h *Handler) userToResponse(user *domain.User) UserResponse {
	dto := h.users.ConvertToUserDTO(user)
	return UserResponse{
		ID:       dto.ID,
		UserID:   dto.UserID,
		Username: dto.Username,
	}
}
