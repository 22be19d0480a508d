package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"schedly/config"
	"schedly/models"
	"schedly/services/scheduling"
	"schedly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityHandler serves slot browsing with a short-TTL cache in front of
// the calculator. The calculator is deterministic, so cached responses only
// go stale when a booking lands; the TTL keeps that window small.
type AvailabilityHandler struct {
	Service scheduling.SchedulingService
	Cache   *redis.Client
	Logger  *zap.Logger
}

func NewAvailabilityHandler(svc scheduling.SchedulingService, cache *redis.Client, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc, Cache: cache, Logger: logger}
}

func availabilityCacheKey(req models.AvailabilityRequest) string {
	return fmt.Sprintf("schedly:avail:%s:%s:%s:%d:%d",
		req.BranchID, req.StaffID, req.Date, req.Duration, req.Granularity)
}

func (h *AvailabilityHandler) GetAvailableSlotsHandler(c *gin.Context) {
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "0"))
	if err != nil || duration <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "duration must be a positive number of minutes")
		return
	}
	granularity, _ := strconv.Atoi(c.DefaultQuery("granularity", "0"))

	req := models.AvailabilityRequest{
		BranchID:    c.Query("branchId"),
		StaffID:     c.Query("staffId"),
		Date:        c.Query("date"),
		Duration:    duration,
		Granularity: granularity,
	}
	if req.BranchID == "" || req.Date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "branchId and date are required")
		return
	}

	ctx := c.Request.Context()
	key := availabilityCacheKey(req)
	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, key).Result(); err == nil {
			var slots []models.TimeSlot
			if json.Unmarshal([]byte(cached), &slots) == nil {
				c.JSON(http.StatusOK, gin.H{"slots": slots, "cached": true})
				return
			}
		}
	}

	slots, err := h.Service.GetAvailableSlots(ctx, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			ttl := time.Duration(config.AppConfig.AvailabilityTTLSec) * time.Second
			if ttl <= 0 {
				ttl = time.Minute
			}
			if err := h.Cache.Set(context.Background(), key, data, ttl).Err(); err != nil {
				h.Logger.Debug("availability cache write failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CheckSlotAvailabilityHandler runs commit-mode conflict detection for one
// fully-formed candidate without reserving anything.
func (h *AvailabilityHandler) CheckSlotAvailabilityHandler(c *gin.Context) {
	var cand models.CandidateSlot
	if err := c.ShouldBindJSON(&cand); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	conflicts, err := h.Service.CheckSlotAvailability(c.Request.Context(), cand)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}
