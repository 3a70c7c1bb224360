package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"track-times/internal/domain"
)

const downloadURLTTL = 15 * time.Minute

type ExportResponse struct {
	ID           int64               `json:"id"`
	Status       domain.ExportStatus `json:"status"`
	Location     string              `json:"location,omitempty"`
	RecordCount  int                 `json:"record_count"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
	CompletedAt  *string             `json:"completed_at,omitempty"`
	DownloadURL  string              `json:"download_url,omitempty"`
}

func (h *Handler) createExport(c *gin.Context) {
	if h.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage not configured"})
		return
	}

	export, err := h.exports.CreateExport(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.manager.Enqueue(c.Request.Context(), export.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, exportToResponse(*export))
}

func (h *Handler) listExports(c *gin.Context) {
	exports, err := h.exports.ListExports(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = exportToResponse(exports[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getExport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export id"})
		return
	}

	export, err := h.exports.GetExport(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	caller, err := h.users.FindUserByUserID(c.Request.Context(), callerUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if caller.ID != export.UserRef {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	resp := exportToResponse(*export)
	if export.Status == domain.ExportStatusCompleted && h.storage != nil {
		key, err := extractS3Key(export.Location, h.bucket)
		if err != nil {
			h.logger.WithField("export_id", export.ID).Warnf("stored location unusable: %v", err)
		} else if url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, key, downloadURLTTL); err != nil {
			h.logger.WithField("export_id", export.ID).Warnf("presign download: %v", err)
		} else {
			resp.DownloadURL = url
		}
	}
	c.JSON(http.StatusOK, resp)
}

func exportToResponse(export domain.Export) ExportResponse {
	resp := ExportResponse{
		ID:           export.ID,
		Status:       export.Status,
		Location:     export.Location,
		RecordCount:  export.RecordCount,
		ErrorMessage: export.ErrorMessage,
		CreatedAt:    export.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    export.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if export.CompletedAt != nil {
		v := export.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

// extractS3Key returns the object key of an s3://bucket/key location.
func extractS3Key(location, bucket string) (string, error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", fmt.Errorf("invalid s3 location")
	}
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		return "", fmt.Errorf("invalid s3 location")
	}
	if bucket != "" && parts[0] != bucket {
		return "", fmt.Errorf("s3 bucket mismatch")
	}
	if len(parts) == 1 || strings.Trim(parts[1], "/") == "" {
		return "", fmt.Errorf("s3 key missing")
	}
	return strings.TrimPrefix(parts[1], "/"), nil
}
