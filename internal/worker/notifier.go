package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotifications = "jobs:notifications"
	maxDeliveryRetries = 3
)

// NotificationJob is one outbound WhatsApp message waiting for delivery.
type NotificationJob struct {
	To       string `json:"to"`
	Body     string `json:"body"`
	Attempts int    `json:"attempts"`
}

// Dispatcher enqueues notification jobs into a Redis list. The worker pool
// dequeues them via BRPOP, so the webhook never waits on the Twilio API.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Notify enqueues one message to one phone number. Implements
// service.Notifier.
func (d *Dispatcher) Notify(ctx context.Context, to, body string) error {
	encoded, err := json.Marshal(NotificationJob{To: to, Body: body})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueNotifications, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the notification
// queue. Each goroutine blocks on BRPOP — zero CPU when idle. A nil twilio
// client drains the queue without sending (local development).
func StartWorkerPool(ctx context.Context, rdb *redis.Client, twilio *infra.TwilioClient, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, twilio, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, twilio *infra.TwilioClient, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueNotifications).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, twilio, result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, twilio *infra.TwilioClient, raw string) {
	var job NotificationJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal notification job")
		return
	}
	if twilio == nil {
		log.Debug().Str("to", job.To).Msg("twilio not configured, dropping notification")
		return
	}
	if err := twilio.SendWhatsApp(ctx, job.To, job.Body); err != nil {
		job.Attempts++
		if job.Attempts >= maxDeliveryRetries {
			SendToDLQ(ctx, rdb, QueueNotifications, json.RawMessage(raw), err.Error(), job.Attempts)
			return
		}
		log.Warn().Err(err).Str("to", job.To).Int("attempts", job.Attempts).Msg("notification delivery failed, re-queueing")
		if encoded, merr := json.Marshal(job); merr == nil {
			_ = rdb.LPush(ctx, QueueNotifications, encoded).Err()
		}
		return
	}
	log.Info().Str("to", job.To).Msg("notification delivered")
}
