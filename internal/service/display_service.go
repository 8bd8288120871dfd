package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zmanview/zmanview-api/internal/dto"
	"github.com/zmanview/zmanview-api/internal/models"
	"github.com/zmanview/zmanview-api/internal/resolver"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
	"github.com/zmanview/zmanview-api/pkg/export"
)

const displayClockFormat = "3:04 PM"

type announcementLister interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
}

type snapshotProvider interface {
	SnapshotLookup(ctx context.Context, shulID string) resolver.Lookup
	GetDay(ctx context.Context, shulID string, date time.Time) (*models.ZmanimDay, error)
}

type layoutLister interface {
	ListByShul(ctx context.Context, shulID string) ([]models.LayoutSlot, error)
}

// DisplayService assembles the resolved schedule payload consumed by the
// public display board. One bad definition never takes down the board: it is
// logged, counted and dropped from the payload.
type DisplayService struct {
	shuls         shulGetter
	customTimes   customTimeRepository
	snapshots     snapshotProvider
	announcements announcementLister
	layout        layoutLister
	cache         *CacheService
	metrics       *MetricsService
	logger        *zap.Logger
	cacheTTL      time.Duration
	now           func() time.Time
}

// NewDisplayService constructs the display service.
func NewDisplayService(shuls shulGetter, customTimes customTimeRepository, snapshots snapshotProvider, announcements announcementLister, layout layoutLister, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *DisplayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisplayService{
		shuls:         shuls,
		customTimes:   customTimes,
		snapshots:     snapshots,
		announcements: announcements,
		layout:        layout,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		cacheTTL:      cacheTTL,
		now:           time.Now,
	}
}

// ScheduleForDate returns the fully resolved display payload for one date.
// A zero date means "today", resolved in the shul's timezone so the board
// never skews to the server's calendar day around midnight.
func (s *DisplayService) ScheduleForDate(ctx context.Context, shulID string, date time.Time) (*dto.DisplaySchedule, error) {
	shul, err := s.shuls.GetByID(ctx, shulID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shul not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch shul")
	}

	loc := shul.Location()
	if date.IsZero() {
		date = s.now().In(loc)
	}
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	cacheKey := fmt.Sprintf("display:%s:%s", shulID, target.Format("2006-01-02"))

	var cached dto.DisplaySchedule
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	defs, err := s.customTimes.ListByShul(ctx, shulID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list custom times")
	}

	lookup := s.snapshots.SnapshotLookup(ctx, shulID)
	schedule := &dto.DisplaySchedule{
		Date:        target.Format("2006-01-02"),
		CustomTimes: s.resolveLines(defs, target, lookup, loc),
	}

	day, err := s.snapshots.GetDay(ctx, shulID, target)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch zmanim")
	}
	if day != nil {
		schedule.HebrewDate = day.HebrewDate
		schedule.Parsha = day.Parsha
		schedule.Zmanim = make(map[string]string, len(day.Times))
		for field, instant := range day.Times {
			schedule.Zmanim[field] = instant.In(loc).Format(displayClockFormat)
		}
	}

	if s.announcements != nil {
		at := s.now().In(loc)
		items, _, err := s.announcements.List(ctx, models.AnnouncementFilter{ShulID: shulID, ActiveAt: &at})
		if err != nil {
			s.logger.Warn("failed to list announcements", zap.String("shul_id", shulID), zap.Error(err))
		}
		for i := range items {
			schedule.Announcements = append(schedule.Announcements, dto.DisplayAnnouncement{
				Title:    items[i].Title,
				Content:  items[i].Content,
				Priority: string(items[i].Priority),
				IsPinned: items[i].IsPinned,
			})
		}
	}

	if err := s.cache.Set(ctx, cacheKey, schedule, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache display schedule", zap.String("key", cacheKey), zap.Error(err))
	}
	return schedule, nil
}

// Layout returns the shul's configured display slots in position order.
func (s *DisplayService) Layout(ctx context.Context, shulID string) ([]models.LayoutSlot, error) {
	if s.layout == nil {
		return nil, nil
	}
	slots, err := s.layout.ListByShul(ctx, shulID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list layout slots")
	}
	return slots, nil
}

// ScheduleForRange resolves consecutive dates, one schedule per day.
func (s *DisplayService) ScheduleForRange(ctx context.Context, shulID string, start time.Time, days int) ([]dto.DisplaySchedule, error) {
	if days < 1 || days > 31 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{
			"days": "must be between 1 and 31",
		})
	}
	out := make([]dto.DisplaySchedule, 0, days)
	for i := 0; i < days; i++ {
		schedule, err := s.ScheduleForDate(ctx, shulID, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		out = append(out, *schedule)
	}
	return out, nil
}

// WeeklyDataset flattens a week of resolved schedules into the tabular shape
// shared by the CSV and PDF exporters. Rows are entries, columns are days.
func (s *DisplayService) WeeklyDataset(ctx context.Context, shulID string, start time.Time) (export.Dataset, string, error) {
	shul, err := s.shuls.GetByID(ctx, shulID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return export.Dataset{}, "", appErrors.Clone(appErrors.ErrNotFound, "shul not found")
		}
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch shul")
	}

	schedules, err := s.ScheduleForRange(ctx, shulID, start, 7)
	if err != nil {
		return export.Dataset{}, "", err
	}

	headers := []string{"Entry"}
	for i := range schedules {
		headers = append(headers, dayHeader(schedules[i].Date))
	}

	// Preserve first-seen ordering of entries across the week.
	order := []string{}
	rowsByName := map[string]map[string]string{}
	for i := range schedules {
		col := dayHeader(schedules[i].Date)
		for _, line := range schedules[i].CustomTimes {
			row, ok := rowsByName[line.InternalName]
			if !ok {
				row = map[string]string{"Entry": line.DisplayName}
				rowsByName[line.InternalName] = row
				order = append(order, line.InternalName)
			}
			if line.Pending {
				row[col] = "-"
			} else {
				row[col] = line.Time
			}
		}
	}

	rows := make([]map[string]string, 0, len(order))
	for _, name := range order {
		rows = append(rows, rowsByName[name])
	}

	subtitle := fmt.Sprintf("%s, week of %s", shul.Name, start.Format("January 2, 2006"))
	return export.Dataset{Headers: headers, Rows: rows}, subtitle, nil
}

// resolveLines runs the resolver over every definition with per-definition
// failure isolation.
func (s *DisplayService) resolveLines(defs []models.CustomTimeDefinition, target time.Time, lookup resolver.Lookup, loc *time.Location) []dto.DisplayLine {
	lines := make([]dto.DisplayLine, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		resolved, err := resolver.Resolve(def, target, lookup)
		if err != nil {
			s.metrics.RecordResolution(ResolutionInvalid)
			s.logger.Error("stored custom time failed to resolve",
				zap.String("shul_id", def.ShulID),
				zap.String("internal_name", def.InternalName),
				zap.Error(err))
			continue
		}
		if !resolved.Shown {
			s.metrics.RecordResolution(ResolutionGated)
			continue
		}
		line := dto.DisplayLine{InternalName: def.InternalName, DisplayName: def.DisplayName}
		if resolved.Instant == nil {
			s.metrics.RecordResolution(ResolutionPending)
			line.Pending = true
		} else {
			s.metrics.RecordResolution(ResolutionShown)
			line.Time = resolved.Instant.In(loc).Format(displayClockFormat)
		}
		lines = append(lines, line)
	}
	return lines
}

func dayHeader(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("Mon Jan 2")
}
