package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/platform/config"
)

const (
	JobIdempotencyPurge  = "idempotency_purge"
	JobNotificationPurge = "notification_purge"
)

const (
	idempotencyRetention  = 24 * time.Hour
	notificationRetention = 90 * 24 * time.Hour
)

// Service runs periodic maintenance work on a single background worker.
type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	queue chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.CleanupInterval > 0 {
		go s.scheduleCleanup(ctx, s.Cfg.CleanupInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobIdempotencyPurge, s.purgeIdempotencyKeys)
			s.Enqueue(JobNotificationPurge, s.purgeReadNotifications)
		}
	}
}

func (s *Service) purgeIdempotencyKeys(ctx context.Context) (any, error) {
	cutoff := time.Now().Add(-idempotencyRetention)
	tag, err := s.DB.Exec(ctx, "DELETE FROM idempotency_keys WHERE created_at < $1", cutoff)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": tag.RowsAffected(), "cutoff": cutoff}, nil
}

func (s *Service) purgeReadNotifications(ctx context.Context) (any, error) {
	cutoff := time.Now().Add(-notificationRetention)
	tag, err := s.DB.Exec(ctx, "DELETE FROM notifications WHERE read_at IS NOT NULL AND read_at < $1", cutoff)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": tag.RowsAffected(), "cutoff": cutoff}, nil
}
