package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/directory"
	"github.com/notioncoach/notioncoach-api/internal/gate"
	"github.com/notioncoach/notioncoach-api/internal/models"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
	"github.com/notioncoach/notioncoach-api/pkg/export"
)

// statsCacheKey holds the computed statistics snapshot when caching is on.
const statsCacheKey = "admin:users:statistics"

// noEmailLabel is rendered when a directory record carries no addresses.
const noEmailLabel = "No email"

// sortFieldMapping translates API sort fields into the directory's native
// field names. Unknown values fall back to created_at.
var sortFieldMapping = map[string]string{
	"name":         "first_name",
	"email":        "email_address",
	"created_at":   "created_at",
	"last_sign_in": "last_sign_in_at",
}

// AdminUsersServiceConfig tunes listing and statistics behaviour.
type AdminUsersServiceConfig struct {
	DefaultLimit    int
	MaxLimit        int
	StatsFetchLimit int
	StatsCacheTTL   time.Duration
}

// AdminUsersService serves the admin directory view: a filtered, sorted,
// paginated page of principals plus a population statistics snapshot.
type AdminUsersService struct {
	dir    directory.Client
	admins *gate.AdminChecker
	cache  *CacheService
	audit  *AuditService
	logger *zap.Logger
	now    func() time.Time
	cfg    AdminUsersServiceConfig

	csvExporter *export.CSVExporter
	pdfExporter *export.PDFExporter
}

// NewAdminUsersService constructs an AdminUsersService with sane defaults.
func NewAdminUsersService(dir directory.Client, admins *gate.AdminChecker, cache *CacheService, audit *AuditService, logger *zap.Logger, cfg AdminUsersServiceConfig) *AdminUsersService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.StatsFetchLimit <= 0 {
		cfg.StatsFetchLimit = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminUsersService{
		dir:         dir,
		admins:      admins,
		cache:       cache,
		audit:       audit,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
		csvExporter: export.NewCSVExporter(),
		pdfExporter: export.NewPDFExporter(),
	}
}

// AuthorizeAdmin re-checks that the caller's primary email is on the admin
// allow-list, resolving it through the directory. Non-members get the
// admin-only Forbidden error regardless of their stored role.
func (s *AdminUsersService) AuthorizeAdmin(ctx context.Context, principalID string) error {
	record, err := s.dir.GetUser(ctx, principalID)
	if err != nil {
		s.logger.Error("failed to resolve caller for admin check", zap.String("principal_id", principalID), zap.Error(err))
		return appErrors.Upstream(err)
	}
	email, ok := record.PrimaryEmail()
	if !ok || !s.admins.IsAdminEmail(email) {
		return appErrors.ErrAdminOnly
	}
	return nil
}

// List composes the admin listing response. The requested page and the
// statistics population are fetched concurrently; both must succeed or the
// whole operation fails with no partial data.
func (s *AdminUsersService) List(ctx context.Context, q models.ListQuery) (*models.AdminUsersResponse, error) {
	q = s.normalize(q)

	var (
		wg       sync.WaitGroup
		pageRes  *directory.ListResult
		pageErr  error
		stats    models.Statistics
		statsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pageRes, pageErr = s.dir.ListUsers(ctx, directory.ListParams{
			Limit:   q.Limit,
			Offset:  q.Offset(),
			OrderBy: orderByParam(q.SortBy, q.SortOrder),
			Query:   q.Search,
		})
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = s.fetchStatistics(ctx)
	}()
	wg.Wait()

	if pageErr != nil {
		s.logger.Error("directory page fetch failed", zap.Error(pageErr))
		return nil, appErrors.Upstream(pageErr)
	}
	if statsErr != nil {
		s.logger.Error("directory statistics fetch failed", zap.Error(statsErr))
		return nil, appErrors.Upstream(statsErr)
	}

	users := make([]models.AdminUser, 0, len(pageRes.Records))
	for i := range pageRes.Records {
		users = append(users, mapRecord(&pageRes.Records[i]))
	}

	// The directory cannot filter on role metadata, so the filter applies
	// locally to the already-paginated page. totalCount stays the
	// directory's unfiltered total and may exceed the rows returned.
	if q.RoleFilter != "" {
		filtered := users[:0]
		for _, u := range users {
			if strings.EqualFold(u.Role, q.RoleFilter) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	totalPages := 0
	if pageRes.TotalCount > 0 {
		totalPages = (pageRes.TotalCount + q.Limit - 1) / q.Limit
	}

	return &models.AdminUsersResponse{
		Users:      users,
		Statistics: stats,
		Pagination: models.Pagination{
			CurrentPage:     q.Page,
			TotalPages:      totalPages,
			TotalCount:      pageRes.TotalCount,
			Limit:           q.Limit,
			HasNextPage:     q.Page < totalPages,
			HasPreviousPage: q.Page > 1,
		},
		Filters: models.Filters{
			SortBy:      q.SortBy,
			SortOrder:   q.SortOrder,
			RoleFilter:  q.RoleFilter,
			SearchQuery: q.Search,
		},
	}, nil
}

// Delete removes a principal from the directory. Allow-listed admin accounts
// are protected here, not in the calling UI.
func (s *AdminUsersService) Delete(ctx context.Context, actorID, targetID string, meta AuditMeta) error {
	record, err := s.dir.GetUser(ctx, targetID)
	if err != nil {
		s.logger.Error("failed to load deletion target", zap.String("target_id", targetID), zap.Error(err))
		return appErrors.Upstream(err)
	}
	if email, ok := record.PrimaryEmail(); ok && s.admins.IsAdminEmail(email) {
		return appErrors.Clone(appErrors.ErrForbidden, "Cannot delete an admin account")
	}

	if err := s.dir.DeleteUser(ctx, targetID); err != nil {
		s.logger.Error("directory delete failed", zap.String("target_id", targetID), zap.Error(err))
		return appErrors.Upstream(err)
	}

	s.audit.Record(models.AuditEvent{
		ActorID:   actorID,
		Action:    models.AuditActionUserDelete,
		TargetID:  &targetID,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})

	return nil
}

// ExportResult carries a rendered export document.
type ExportResult struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// Export renders the current listing (same query semantics as List) as CSV
// or PDF for download from the admin dashboard.
func (s *AdminUsersService) Export(ctx context.Context, q models.ListQuery, format string) (*ExportResult, error) {
	resp, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "First name", "Last name", "Email", "Role", "Created", "Last sign-in"},
		Rows:    make([][]string, 0, len(resp.Users)),
	}
	for _, u := range resp.Users {
		dataset.Rows = append(dataset.Rows, []string{
			u.ID,
			stringOrEmpty(u.FirstName),
			stringOrEmpty(u.LastName),
			u.Email,
			u.Role,
			formatMillis(u.CreatedAt),
			formatMillisPtr(u.LastSignInAt),
		})
	}

	switch strings.ToLower(format) {
	case "csv":
		payload, err := s.csvExporter.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return &ExportResult{Bytes: payload, ContentType: "text/csv", Filename: "users.csv"}, nil
	case "pdf":
		payload, err := s.pdfExporter.Render(dataset, "NotionCoach users")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return &ExportResult{Bytes: payload, ContentType: "application/pdf", Filename: "users.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// normalize coerces the query spec into its documented bounds: page ≥ 1,
// limit clamped to [1, MaxLimit], sort field and order from their closed sets.
func (s *AdminUsersService) normalize(q models.ListQuery) models.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = s.cfg.DefaultLimit
	}
	if q.Limit > s.cfg.MaxLimit {
		q.Limit = s.cfg.MaxLimit
	}
	if _, ok := sortFieldMapping[q.SortBy]; !ok {
		q.SortBy = "created_at"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
	return q
}

// fetchStatistics returns the population snapshot, from cache when the flag
// is on, otherwise from a fresh bounded bulk fetch.
func (s *AdminUsersService) fetchStatistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	if hit, _ := s.cache.Get(ctx, statsCacheKey, &stats); hit {
		return stats, nil
	}

	res, err := s.dir.ListUsers(ctx, directory.ListParams{
		Limit:   s.cfg.StatsFetchLimit,
		OrderBy: "-created_at",
	})
	if err != nil {
		return models.Statistics{}, err
	}

	stats = computeStatistics(res, s.now())

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.cfg.StatsCacheTTL); err != nil {
		s.logger.Warn("failed to cache statistics snapshot", zap.Error(err))
	}
	return stats, nil
}

// InvalidateStatistics drops the cached snapshot after a mutation.
func (s *AdminUsersService) InvalidateStatistics(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, statsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate statistics cache", zap.Error(err))
	}
}

// computeStatistics derives the snapshot from the bulk fetch. TotalUsers is
// the directory's reported total; every other count runs over the capped
// record set and is an approximation beyond the cap.
func computeStatistics(res *directory.ListResult, now time.Time) models.Statistics {
	nowMillis := now.UnixMilli()
	sevenDaysAgo := nowMillis - 7*24*time.Hour.Milliseconds()
	fourteenDaysAgo := nowMillis - 14*24*time.Hour.Milliseconds()
	thirtyDaysAgo := nowMillis - 30*24*time.Hour.Milliseconds()

	var dist models.RoleDistribution
	var recentSignups, previousWeekSignups, activeUsers int

	for i := range res.Records {
		rec := &res.Records[i]

		switch models.ParseRole(rec.RoleMetadata()) {
		case models.RoleCoach:
			dist.Coaches++
		case models.RoleAthlete:
			dist.Athletes++
		default:
			dist.NoRole++
		}

		if rec.CreatedAt > sevenDaysAgo {
			recentSignups++
		} else if rec.CreatedAt > fourteenDaysAgo {
			previousWeekSignups++
		}

		if rec.LastSignInAt != nil && *rec.LastSignInAt > thirtyDaysAgo {
			activeUsers++
		}
	}

	return models.Statistics{
		TotalUsers:       res.TotalCount,
		RoleDistribution: dist,
		RecentSignups:    recentSignups,
		ActiveUsers:      activeUsers,
		GrowthRate:       growthRate(recentSignups, previousWeekSignups),
	}
}

// growthRate compares the last 7 days of signups against the 7 days before.
// A zero prior window counts as 100% growth when the current window is
// nonzero and 0% when both are zero. Rounded to one decimal place.
func growthRate(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	rate := float64(current-previous) / float64(previous) * 100
	return math.Round(rate*10) / 10
}

func orderByParam(sortBy, sortOrder string) string {
	field := sortFieldMapping[sortBy]
	if sortOrder == "desc" {
		return "-" + field
	}
	return field
}

func mapRecord(rec *directory.Record) models.AdminUser {
	email, ok := rec.PrimaryEmail()
	if !ok {
		email = noEmailLabel
	}
	return models.AdminUser{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        email,
		Role:         models.ParseRole(rec.RoleMetadata()).Label(),
		CreatedAt:    rec.CreatedAt,
		LastSignInAt: rec.LastSignInAt,
		ImageURL:     rec.ImageURL,
	}
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatMillisPtr(ms *int64) string {
	if ms == nil {
		return ""
	}
	return formatMillis(*ms)
}
