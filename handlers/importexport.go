package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeline/services/schedule"
	"timeline/utils"
)

// maxImportBytes caps the accepted import payload size.
const maxImportBytes = 1 << 20

// ExportHandler streams the collection as a dated JSON backup attachment.
func (h *ScheduleHandler) ExportHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	data, filename, err := h.Service.Export(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to export schedule", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export schedule", "message": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportHandler replaces the whole collection with an uploaded JSON array.
// The caller must confirm the replacement explicitly via ?confirm=true.
func (h *ScheduleHandler) ImportHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Import requires confirmation",
			"message": "Importing replaces the current schedule. Repeat the request with confirm=true.",
		})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read import payload", "message": err.Error()})
		return
	}

	slots, err := h.Service.Import(c.Request.Context(), userID, payload)
	if err != nil && errors.Is(err, schedule.ErrImport) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file", "message": err.Error()})
		return
	}
	respondSlots(c, slots, err)
}
