package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueStockAlert = "jobs:stock_alert"
	QueueArqueoPDF  = "jobs:arqueo_pdf"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A non-nil error re-enqueues the job
// until MaxRetries is exhausted, then it lands in the DLQ.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockAlert pushes a low-stock notification job to Redis.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueStockAlert, "stock_alert", payload)
}

// EnqueueArqueoPDF pushes a cash-count ticket rendering job to Redis.
func (d *Dispatcher) EnqueueArqueoPDF(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueArqueoPDF, "arqueo_pdf", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// PoolConfig wires the worker pool to its job handlers.
type PoolConfig struct {
	Workers    int
	MaxRetries int
	Handlers   map[string]Handler // queue → handler
}

// StartWorkerPool launches cfg.Workers goroutines consuming every queue with
// a registered handler. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, cfg PoolConfig) {
	queues := make([]string, 0, len(cfg.Handlers))
	for q := range cfg.Handlers {
		queues = append(queues, q)
	}
	for i := 0; i < cfg.Workers; i++ {
		go runWorker(ctx, rdb, cfg, queues, i)
	}
	log.Info().Msgf("worker pool started with %d workers", cfg.Workers)
}

func runWorker(ctx context.Context, rdb *redis.Client, cfg PoolConfig, queues []string, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, cfg, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, cfg PoolConfig, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	handler, ok := cfg.Handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler registered")
		return
	}

	if err := handler(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= cfg.MaxRetries {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		encoded, mErr := json.Marshal(job)
		if mErr != nil {
			log.Error().Err(mErr).Str("queue", queue).Msg("failed to re-encode job for retry")
			return
		}
		if pErr := rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
			log.Error().Err(pErr).Str("queue", queue).Msg("failed to re-enqueue job")
			return
		}
		log.Warn().
			Str("queue", queue).
			Str("type", job.Type).
			Int("attempts", job.Attempts).
			Err(err).
			Msg("job failed, re-enqueued")
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}
