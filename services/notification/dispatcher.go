package notification

import (
	"context"
	"fmt"
	"time"

	"schedly/models"
	"schedly/services/tasks"
	"schedly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher queues reminders and confirmations on the shared Redis
// task queue; the worker in cron/ picks them up.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client}
}

func startOf(appt models.Appointment) (time.Time, error) {
	day, err := utils.ParseDate(appt.Date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := utils.ParseClock(appt.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

func (d *AsynqDispatcher) ScheduleReminder(ctx context.Context, appt models.Appointment, channel string, offsetMinutes int) error {
	start, err := startOf(appt)
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	fireAt := start.Add(-time.Duration(offsetMinutes) * time.Minute)
	if fireAt.Before(time.Now()) {
		// Appointment is closer than the offset; nothing to remind about.
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		CompanyID:     appt.CompanyID,
		BranchID:      appt.BranchID,
		ClientID:      appt.ClientID,
		Channel:       channel,
		FireDate:      fireAt.Format(time.RFC3339),
		Title:         "Upcoming appointment",
		Body:          fmt.Sprintf("Your appointment on %s at %s is coming up.", appt.Date, appt.StartTime),
	}

	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := d.Client.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Warn("failed to enqueue reminder",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return err
	}
	return nil
}

func (d *AsynqDispatcher) SendConfirmation(ctx context.Context, appt models.Appointment) error {
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		CompanyID:     appt.CompanyID,
		BranchID:      appt.BranchID,
		ClientID:      appt.ClientID,
		Channel:       "sms",
		FireDate:      time.Now().Format(time.RFC3339),
		Title:         "Appointment booked",
		Body:          fmt.Sprintf("Your appointment on %s at %s is booked.", appt.Date, appt.StartTime),
	}

	task, _, err := tasks.NewReminderTask(payload, time.Now())
	if err != nil {
		return err
	}
	if _, err := d.Client.EnqueueContext(ctx, task); err != nil {
		utils.GetLogger().Warn("failed to enqueue confirmation",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return err
	}
	return nil
}
