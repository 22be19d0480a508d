package handlers

import (
	"net/http"

	"schedly/models"
	"schedly/services/scheduling"
	"schedly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes the booking orchestrator over HTTP.
type AppointmentHandler struct {
	Service scheduling.SchedulingService
	Logger  *zap.Logger
}

func NewAppointmentHandler(svc scheduling.SchedulingService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Logger: logger}
}

// actor identifies who performed the operation for the change history.
// Authentication lives upstream; the gateway forwards the acting user.
func actor(c *gin.Context) string {
	if a := c.GetHeader("X-Actor-Id"); a != "" {
		return a
	}
	return "api"
}

// respondServiceError maps the engine's typed errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := scheduling.AsValidationError(err); ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", ve.Error())
		return
	}
	if ce, ok := scheduling.AsConflictError(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"message":   "slot not bookable",
			"conflicts": ce.Conflicts,
		})
		return
	}
	if ne, ok := scheduling.AsNotFoundError(err); ok {
		utils.JSONError(c, http.StatusNotFound, "not found", ne.Error())
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "operation failed", err.Error())
}

func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var input models.CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.CreateAppointment(c.Request.Context(), input, actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *AppointmentHandler) GetAppointmentHandler(c *gin.Context) {
	appt, err := h.Service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) ListDayHandler(c *gin.Context) {
	branchID := c.Query("branchId")
	date := c.Query("date")
	if branchID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "branchId and date are required")
		return
	}
	appts, err := h.Service.ListAppointmentsForDay(c.Request.Context(), branchID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *AppointmentHandler) UpdateAppointmentHandler(c *gin.Context) {
	var input models.UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Service.UpdateAppointment(c.Request.Context(), c.Param("id"), input, actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) RescheduleAppointmentHandler(c *gin.Context) {
	var input models.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Service.RescheduleAppointment(c.Request.Context(), c.Param("id"), input, actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) ConfirmHandler(c *gin.Context) {
	appt, err := h.Service.ConfirmAppointment(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) CancelHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	appt, err := h.Service.CancelAppointment(c.Request.Context(), c.Param("id"), input.Reason, actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) CheckInHandler(c *gin.Context) {
	appt, err := h.Service.CheckIn(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) StartHandler(c *gin.Context) {
	appt, err := h.Service.Start(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) CompleteHandler(c *gin.Context) {
	appt, err := h.Service.Complete(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) NoShowHandler(c *gin.Context) {
	appt, err := h.Service.MarkNoShow(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
