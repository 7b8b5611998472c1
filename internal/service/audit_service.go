package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/models"
	"github.com/notioncoach/notioncoach-api/pkg/config"
	"github.com/notioncoach/notioncoach-api/pkg/jobs"
)

// AuditMeta carries request context worth recording alongside an event.
type AuditMeta struct {
	IP        string
	UserAgent string
}

// auditRecorder persists audit events.
type auditRecorder interface {
	Insert(ctx context.Context, event *models.AuditEvent) error
}

// AuditService records admin-surface actions through a background worker
// queue. Recording is best-effort: it never blocks or fails the request that
// triggered it. A nil service is a valid no-op.
type AuditService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService wires the audit queue to its persistence handler.
func NewAuditService(repo auditRecorder, cfg config.AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		event, ok := job.Payload.(*models.AuditEvent)
		if !ok {
			logger.Error("audit job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return repo.Insert(ctx, event)
	}

	queue := jobs.NewQueue("audit", handler, jobs.QueueConfig{
		Workers:    cfg.WorkerCount,
		BufferSize: cfg.QueueSize,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: cfg.WorkerRetryGap,
		Logger:     logger,
	})

	return &AuditService{queue: queue, logger: logger}
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record enqueues an audit event, filling in identity and timestamp.
func (s *AuditService) Record(event models.AuditEvent) {
	if s == nil {
		return
	}
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()

	err := s.queue.TryEnqueue(jobs.Job{
		ID:      event.ID,
		Kind:    event.Action,
		Payload: &event,
	})
	if err != nil {
		s.logger.Warn("dropping audit event", zap.String("action", event.Action), zap.Error(err))
	}
}
