package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zmanview/zmanview-api/internal/models"
	"github.com/zmanview/zmanview-api/internal/resolver"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
	"github.com/zmanview/zmanview-api/pkg/jobs"
)

// Calculator computes the astronomical times table for one shul and date. The
// implementation lives outside this service so the provider can be swapped
// without touching persistence or dispatch.
type Calculator interface {
	Compute(ctx context.Context, shul *models.Shul, date time.Time) (*models.ZmanimDay, error)
}

type zmanimRepository interface {
	GetDay(ctx context.Context, shulID string, date time.Time) (*models.ZmanimDay, error)
	ListRange(ctx context.Context, shulID string, start, end time.Time) ([]models.ZmanimDay, error)
	Upsert(ctx context.Context, day *models.ZmanimDay) error
	Horizon(ctx context.Context, shulID string) (*time.Time, error)
}

type shulGetter interface {
	GetByID(ctx context.Context, id string) (*models.Shul, error)
}

type refreshPayload struct {
	ShulID string
	Days   int
}

// ZmanimService owns the precomputed zmanim table: lookups for the resolver,
// the admin-facing field catalog and range listing, and the background
// refresh that extends a shul's horizon.
type ZmanimService struct {
	repo    zmanimRepository
	shuls   shulGetter
	calc    Calculator
	audit   auditLogger
	metrics *MetricsService
	logger  *zap.Logger

	horizonDays int
	queue       *jobs.Queue
}

// NewZmanimService constructs the service and its refresh queue. Call Start
// before enqueueing refreshes and Stop on shutdown.
func NewZmanimService(repo zmanimRepository, shuls shulGetter, calc Calculator, audit auditLogger, metrics *MetricsService, logger *zap.Logger, horizonDays, workers, retries int) *ZmanimService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonDays <= 0 {
		horizonDays = 180
	}
	s := &ZmanimService{
		repo:        repo,
		shuls:       shuls,
		calc:        calc,
		audit:       audit,
		metrics:     metrics,
		logger:      logger,
		horizonDays: horizonDays,
	}
	s.queue = jobs.NewQueue("zmanim-refresh", s.handleRefreshJob, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		RetryDelay: 30 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the refresh workers.
func (s *ZmanimService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the refresh workers.
func (s *ZmanimService) Stop() {
	s.queue.Stop()
}

// Fields returns the catalog of zman field keys available as dynamic bases.
func (s *ZmanimService) Fields() []models.ZmanimField {
	return models.ZmanimFields
}

// ListRange returns the stored rows for an inclusive date range.
func (s *ZmanimService) ListRange(ctx context.Context, shulID string, start, end time.Time) ([]models.ZmanimDay, error) {
	if end.Before(start) {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{
			"end": "must not be before start",
		})
	}
	days, err := s.repo.ListRange(ctx, shulID, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list zmanim")
	}
	return days, nil
}

// Horizon returns the last precomputed date for a shul, nil when the table is
// empty.
func (s *ZmanimService) Horizon(ctx context.Context, shulID string) (*time.Time, error) {
	horizon, err := s.repo.Horizon(ctx, shulID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read zmanim horizon")
	}
	return horizon, nil
}

// GetDay returns the stored row for one date. Callers distinguish an absent
// row via sql.ErrNoRows, which passes through untouched.
func (s *ZmanimService) GetDay(ctx context.Context, shulID string, date time.Time) (*models.ZmanimDay, error) {
	return s.repo.GetDay(ctx, shulID, date)
}

// SnapshotLookup returns a resolver lookup bound to one shul. Rows are read
// lazily and memoized per date, so a batch of resolutions touching the same
// handful of dates issues one query per date. A date with no stored row
// yields nil for every field, which the resolver reports as pending.
func (s *ZmanimService) SnapshotLookup(ctx context.Context, shulID string) resolver.Lookup {
	memo := make(map[string]*models.ZmanimDay)
	return func(date time.Time, field string) *time.Time {
		key := date.Format("2006-01-02")
		day, ok := memo[key]
		if !ok {
			fetched, err := s.repo.GetDay(ctx, shulID, date)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					s.logger.Warn("zmanim lookup failed",
						zap.String("shul_id", shulID),
						zap.String("date", key),
						zap.Error(err))
				}
				fetched = nil
			}
			memo[key] = fetched
			day = fetched
		}
		if day == nil {
			return nil
		}
		instant, ok := day.Times[field]
		if !ok {
			return nil
		}
		return &instant
	}
}

// EnqueueRefresh schedules a background recomputation of a shul's table out
// to the configured horizon.
func (s *ZmanimService) EnqueueRefresh(ctx context.Context, shulID string, actor *models.JWTClaims) error {
	if _, err := s.shuls.GetByID(ctx, shulID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shul not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch shul")
	}

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "zmanim.refresh",
		Payload: refreshPayload{ShulID: shulID, Days: s.horizonDays},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue refresh")
	}

	if s.audit != nil {
		log := &models.AuditLog{Action: models.AuditActionZmanimRefresh, Resource: "zmanim", ResourceID: &shulID}
		if actor != nil {
			log.UserID = &actor.UserID
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to write audit log", zap.String("action", models.AuditActionZmanimRefresh), zap.Error(err))
		}
	}
	return nil
}

func (s *ZmanimService) handleRefreshJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(refreshPayload)
	if !ok {
		s.logger.Error("refresh job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.refresh(ctx, payload.ShulID, payload.Days)
}

// refresh recomputes every day from today (in the shul's timezone) out to the
// horizon. Failures on individual dates abort the walk so the queue retries
// the whole job; already written rows are simply overwritten on the next run.
func (s *ZmanimService) refresh(ctx context.Context, shulID string, days int) error {
	shul, err := s.shuls.GetByID(ctx, shulID)
	if err != nil {
		return err
	}

	start := time.Now()
	loc := shul.Location()
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	written := 0
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		date := today.AddDate(0, 0, i)
		day, err := s.calc.Compute(ctx, shul, date)
		if err != nil {
			s.metrics.ObserveRefresh(time.Since(start), written)
			return err
		}
		day.ShulID = shulID
		day.Date = date
		if err := s.repo.Upsert(ctx, day); err != nil {
			s.metrics.ObserveRefresh(time.Since(start), written)
			return err
		}
		written++
	}

	s.metrics.ObserveRefresh(time.Since(start), written)
	s.logger.Info("zmanim refresh complete",
		zap.String("shul_id", shulID),
		zap.Int("days", written),
		zap.Duration("took", time.Since(start)))
	return nil
}
