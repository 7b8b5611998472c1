package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/directory"
	"github.com/notioncoach/notioncoach-api/internal/models"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
)

// RoleService handles the one-time post-signup role selection. The role is
// custom metadata on the directory record; admin status is never writable
// through this path.
type RoleService struct {
	dir    directory.Client
	audit  *AuditService
	users  *AdminUsersService
	logger *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(dir directory.Client, audit *AuditService, users *AdminUsersService, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{dir: dir, audit: audit, users: users, logger: logger}
}

// SetRole stores the selected role for the authenticated principal. A
// principal whose role is already set gets a conflict: the selection happens
// exactly once in the normal flow.
func (s *RoleService) SetRole(ctx context.Context, principalID, rawRole string, meta AuditMeta) error {
	role := models.ParseRole(rawRole)
	if role == models.RoleUnset {
		return appErrors.Clone(appErrors.ErrValidation, "role must be athlete or coach")
	}

	record, err := s.dir.GetUser(ctx, principalID)
	if err != nil {
		s.logger.Error("failed to load principal for role selection", zap.String("principal_id", principalID), zap.Error(err))
		return appErrors.Upstream(err)
	}
	if models.ParseRole(record.RoleMetadata()) != models.RoleUnset {
		return appErrors.Clone(appErrors.ErrConflict, "role is already set")
	}

	if err := s.dir.UpdateUserRole(ctx, principalID, string(role)); err != nil {
		s.logger.Error("failed to store role metadata", zap.String("principal_id", principalID), zap.Error(err))
		return appErrors.Upstream(err)
	}

	detail, _ := json.Marshal(map[string]string{"role": string(role)})
	s.audit.Record(models.AuditEvent{
		ActorID:   principalID,
		Action:    models.AuditActionRoleSet,
		TargetID:  &principalID,
		Detail:    detail,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})

	if s.users != nil {
		s.users.InvalidateStatistics(ctx)
	}

	return nil
}
