package directory

import (
	"context"
)

// EmailAddress is one entry of a principal's ordered email list. The first
// entry is treated as primary.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// Record is a raw principal record as the external directory returns it.
// Timestamps are epoch milliseconds.
type Record struct {
	ID             string                 `json:"id"`
	FirstName      *string                `json:"first_name"`
	LastName       *string                `json:"last_name"`
	EmailAddresses []EmailAddress         `json:"email_addresses"`
	UnsafeMetadata map[string]interface{} `json:"unsafe_metadata"`
	CreatedAt      int64                  `json:"created_at"`
	LastSignInAt   *int64                 `json:"last_sign_in_at"`
	ImageURL       string                 `json:"image_url"`
}

// PrimaryEmail returns the first email address, if any.
func (r *Record) PrimaryEmail() (string, bool) {
	if r == nil || len(r.EmailAddresses) == 0 {
		return "", false
	}
	return r.EmailAddresses[0].EmailAddress, true
}

// RoleMetadata extracts the free-form role value from custom metadata.
// The directory applies no schema validation, so any type can turn up;
// non-string values read as absent.
func (r *Record) RoleMetadata() string {
	if r == nil || r.UnsafeMetadata == nil {
		return ""
	}
	role, _ := r.UnsafeMetadata["role"].(string)
	return role
}

// ListParams drive a bounded, ordered, searchable directory query. OrderBy
// uses the directory's native field names with a leading "-" for descending.
// Query is passed through verbatim; its matching semantics belong to the
// directory.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Query   string
}

// ListResult pairs a page of records with the directory's total count for
// the query (ignoring limit/offset).
type ListResult struct {
	Records    []Record
	TotalCount int
}

// Client is the external user-directory collaborator. All operations are
// remote calls; callers must treat every error as upstream failure.
type Client interface {
	ListUsers(ctx context.Context, params ListParams) (*ListResult, error)
	GetUser(ctx context.Context, id string) (*Record, error)
	UpdateUserRole(ctx context.Context, id, role string) error
	DeleteUser(ctx context.Context, id string) error
}
