package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/notioncoach/notioncoach-api/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	target := "user_5"
	event := &models.AuditEvent{
		ID:        "evt-1",
		ActorID:   "admin-1",
		Action:    models.AuditActionUserDelete,
		TargetID:  &target,
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
		CreatedAt: time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
		WithArgs(event.ID, event.ActorID, event.Action, event.TargetID, event.Detail, event.IPAddress, event.UserAgent, event.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), event))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryInsertFailure(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), &models.AuditEvent{ID: "evt-1", ActorID: "admin-1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert audit event")
}

func TestAuditRepositoryListByActor(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	rows := sqlmock.NewRows([]string{"id", "actor_id", "action", "target_id", "detail", "ip_address", "user_agent", "created_at"}).
		AddRow("evt-2", "admin-1", models.AuditActionRoleSet, nil, []byte(`{"role":"coach"}`), "10.0.0.1", "test-agent", time.Now()).
		AddRow("evt-1", "admin-1", models.AuditActionUserDelete, "user_5", nil, "10.0.0.1", "test-agent", time.Now().Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, actor_id, action, target_id, detail, ip_address, user_agent, created_at")).
		WithArgs("admin-1", 50).
		WillReturnRows(rows)

	events, err := repo.ListByActor(context.Background(), "admin-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "evt-2", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
