package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/directory"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
)

func newRoleService(dir directory.Client) *RoleService {
	return NewRoleService(dir, nil, nil, zap.NewNop())
}

func TestSetRoleStoresSelection(t *testing.T) {
	rec := dirRecord("user_1", "a@example.com", "", 1000)
	dir := &mockDirectory{records: map[string]*directory.Record{"user_1": &rec}}
	svc := newRoleService(dir)

	require.NoError(t, svc.SetRole(context.Background(), "user_1", "athlete", AuditMeta{}))
	assert.Equal(t, "athlete", dir.roleUpdates["user_1"])
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	dir := &mockDirectory{}
	svc := newRoleService(dir)

	err := svc.SetRole(context.Background(), "user_1", "referee", AuditMeta{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Empty(t, dir.roleUpdates)
}

func TestSetRoleConflictsWhenAlreadySet(t *testing.T) {
	rec := dirRecord("user_1", "a@example.com", "coach", 1000)
	dir := &mockDirectory{records: map[string]*directory.Record{"user_1": &rec}}
	svc := newRoleService(dir)

	err := svc.SetRole(context.Background(), "user_1", "athlete", AuditMeta{})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Empty(t, dir.roleUpdates)
}

func TestSetRolePropagatesDirectoryFailure(t *testing.T) {
	rec := dirRecord("user_1", "a@example.com", "", 1000)
	dir := &mockDirectory{
		records:   map[string]*directory.Record{"user_1": &rec},
		updateErr: errors.New("directory down"),
	}
	svc := newRoleService(dir)

	err := svc.SetRole(context.Background(), "user_1", "coach", AuditMeta{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
