package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/pkg/config"
)

type recordedCall struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]interface{}
}

type fakeDirectory struct {
	mu      sync.Mutex
	calls   []recordedCall
	handler http.HandlerFunc
	server  *httptest.Server
}

func newFakeDirectory(handler http.HandlerFunc) *fakeDirectory {
	fd := &fakeDirectory{handler: handler}
	fd.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
		}
		if r.Body != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				call.body = body
			}
		}
		fd.mu.Lock()
		fd.calls = append(fd.calls, call)
		fd.mu.Unlock()
		fd.handler(w, r)
	}))
	return fd
}

func (fd *fakeDirectory) client() *HTTPClient {
	return NewHTTPClient(config.DirectoryConfig{
		BaseURL:   fd.server.URL,
		SecretKey: "sk_test_secret",
		Timeout:   2 * time.Second,
	}, zap.NewNop(), nil)
}

func (fd *fakeDirectory) call(i int) recordedCall {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.calls[i]
}

func TestListUsersCombinesPageAndCount(t *testing.T) {
	fd := newFakeDirectory(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			_, _ = w.Write([]byte(`[{"id":"user_1","first_name":"Ada","email_addresses":[{"id":"e1","email_address":"ada@example.com"}],"unsafe_metadata":{"role":"coach"},"created_at":1700000000000}]`))
		case "/users/count":
			_, _ = w.Write([]byte(`{"total_count":47}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer fd.server.Close()

	res, err := fd.client().ListUsers(context.Background(), ListParams{
		Limit:   10,
		Offset:  20,
		OrderBy: "-created_at",
		Query:   "ada",
	})
	require.NoError(t, err)

	assert.Equal(t, 47, res.TotalCount)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "user_1", res.Records[0].ID)
	email, ok := res.Records[0].PrimaryEmail()
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, "coach", res.Records[0].RoleMetadata())

	list := fd.call(0)
	assert.Equal(t, "Bearer sk_test_secret", list.auth)
	assert.Equal(t, "/users", list.path)
	assert.Contains(t, list.query, "limit=10")
	assert.Contains(t, list.query, "offset=20")
	assert.Contains(t, list.query, "order_by=-created_at")
	assert.Contains(t, list.query, "query=ada")

	count := fd.call(1)
	assert.Equal(t, "/users/count", count.path)
	assert.Equal(t, "query=ada", count.query)
}

func TestListUsersUpstreamError(t *testing.T) {
	fd := newFakeDirectory(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer fd.server.Close()

	_, err := fd.client().ListUsers(context.Background(), ListParams{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestGetUser(t *testing.T) {
	fd := newFakeDirectory(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"user_1","created_at":1700000000000,"last_sign_in_at":1700000100000}`))
	})
	defer fd.server.Close()

	rec, err := fd.client().GetUser(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1", rec.ID)
	require.NotNil(t, rec.LastSignInAt)
	assert.Equal(t, int64(1700000100000), *rec.LastSignInAt)
	assert.Equal(t, "/users/user_1", fd.call(0).path)
}

func TestUpdateUserRolePatchesMetadata(t *testing.T) {
	fd := newFakeDirectory(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer fd.server.Close()

	require.NoError(t, fd.client().UpdateUserRole(context.Background(), "user_1", "athlete"))

	call := fd.call(0)
	assert.Equal(t, http.MethodPatch, call.method)
	assert.Equal(t, "/users/user_1/metadata", call.path)
	meta, ok := call.body["unsafe_metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "athlete", meta["role"])
}

func TestDeleteUser(t *testing.T) {
	fd := newFakeDirectory(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer fd.server.Close()

	require.NoError(t, fd.client().DeleteUser(context.Background(), "user_9"))

	call := fd.call(0)
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/users/user_9", call.path)
}

func TestRecordMetadataShapes(t *testing.T) {
	rec := &Record{}
	if _, ok := rec.PrimaryEmail(); ok {
		t.Fatal("empty record should have no primary email")
	}
	assert.Equal(t, "", rec.RoleMetadata())

	rec.UnsafeMetadata = map[string]interface{}{"role": 42}
	assert.Equal(t, "", rec.RoleMetadata(), "non-string role metadata reads as absent")

	rec.UnsafeMetadata["role"] = "coach"
	assert.Equal(t, "coach", rec.RoleMetadata())
}
