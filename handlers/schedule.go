package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeline/models"
	"timeline/services/schedule"
	"timeline/utils"
)

// ScheduleHandler exposes the weekly schedule operations over HTTP.
type ScheduleHandler struct {
	Service schedule.ScheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

// userIDFromContext retrieves the authenticated user ID set by the auth
// middleware.
func userIDFromContext(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in context"})
		return "", false
	}
	return userID, true
}

// respondSlots writes the mutated collection, downgrading a failed store
// write to a warning: the optimistic local update stands either way.
func respondSlots(c *gin.Context, slots []models.Slot, err error) {
	logger := utils.GetLogger()

	if err != nil {
		var perr *schedule.PersistenceError
		var verr *schedule.ValidationError
		switch {
		case errors.As(err, &perr):
			if perr.Op == "load" {
				// The document never loaded, so there is no local state to
				// keep and the mutation was dropped.
				logger.Error("Failed to load schedule", zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load schedule", "message": err.Error()})
				return
			}
			logger.Error("Failed to sync schedule to store", zap.Error(err))
			c.JSON(http.StatusOK, gin.H{
				"slots":   slots,
				"warning": "Failed to save changes to cloud. Local changes are kept.",
			})
			return
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot", "message": verr.Error()})
			return
		case errors.Is(err, schedule.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
			return
		case errors.Is(err, schedule.ErrInvalidFormat), errors.Is(err, schedule.ErrOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
			return
		default:
			logger.Error("Schedule operation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule operation failed", "message": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// GetSlotsHandler returns the user's normalized slot collection.
func (h *ScheduleHandler) GetSlotsHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	slots, err := h.Service.LoadSlots(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to load schedule", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load schedule", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// AddSlotHandler creates a slot, or several when repeatDays is set.
func (h *ScheduleHandler) AddSlotHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var draft models.SlotDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.GetLogger().Error("Invalid slot draft", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slots, err := h.Service.AddSlot(c.Request.Context(), userID, draft)
	respondSlots(c, slots, err)
}

// EditSlotHandler merges a partial record onto an existing slot.
func (h *ScheduleHandler) EditSlotHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	var patch models.SlotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slots, err := h.Service.EditSlot(c.Request.Context(), userID, slotID, patch)
	respondSlots(c, slots, err)
}

// DeleteSlotHandler removes a slot by id.
func (h *ScheduleHandler) DeleteSlotHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	slots, err := h.Service.DeleteSlot(c.Request.Context(), userID, slotID)
	respondSlots(c, slots, err)
}

// MoveSlotHandler repositions a slot after a drag.
func (h *ScheduleHandler) MoveSlotHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}

	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slots, err := h.Service.MoveSlot(c.Request.Context(), userID, slotID, req)
	respondSlots(c, slots, err)
}

// GetSummaryHandler returns the per-color duration breakdown.
func (h *ScheduleHandler) GetSummaryHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	summary, err := h.Service.Summary(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to summarize schedule", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to summarize schedule", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
