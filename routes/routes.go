package routes

import (
	"schedly/handlers"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Appointments *handlers.AppointmentHandler
	Availability *handlers.AvailabilityHandler
}

// RegisterRoutes registers all endpoints for the scheduling engine.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	availability := r.Group("/api/availability")
	{
		availability.GET("/slots", b.Availability.GetAvailableSlotsHandler)
		availability.POST("/check", b.Availability.CheckSlotAvailabilityHandler)
	}

	appointments := r.Group("/api/appointments")
	{
		appointments.POST("", b.Appointments.CreateAppointmentHandler)
		appointments.GET("", b.Appointments.ListDayHandler)
		appointments.GET("/:id", b.Appointments.GetAppointmentHandler)
		appointments.PATCH("/:id", b.Appointments.UpdateAppointmentHandler)
		appointments.POST("/:id/reschedule", b.Appointments.RescheduleAppointmentHandler)
		appointments.POST("/:id/confirm", b.Appointments.ConfirmHandler)
		appointments.POST("/:id/cancel", b.Appointments.CancelHandler)
		appointments.POST("/:id/check-in", b.Appointments.CheckInHandler)
		appointments.POST("/:id/start", b.Appointments.StartHandler)
		appointments.POST("/:id/complete", b.Appointments.CompleteHandler)
		appointments.POST("/:id/no-show", b.Appointments.NoShowHandler)
	}
}
