package models

// Role classifies a principal for dashboard routing. The external directory
// stores it as free-form metadata; parsing closes it into this enum so raw
// strings never travel through business logic.
type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
	RoleUnset   Role = ""
)

// NoRoleLabel is the sentinel rendered for principals without a stored role.
const NoRoleLabel = "No role set"

// ParseRole maps an external metadata value onto the closed enum. Anything
// unrecognized, including the empty string, is treated as no role set.
func ParseRole(raw string) Role {
	switch raw {
	case string(RoleAthlete):
		return RoleAthlete
	case string(RoleCoach):
		return RoleCoach
	default:
		return RoleUnset
	}
}

// Label renders the role for API responses.
func (r Role) Label() string {
	if r == RoleUnset {
		return NoRoleLabel
	}
	return string(r)
}

// AdminUser is the mapped view of a directory record served to admins.
// Timestamps are epoch milliseconds, matching the directory's wire format.
type AdminUser struct {
	ID           string  `json:"id"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	CreatedAt    int64   `json:"createdAt"`
	LastSignInAt *int64  `json:"lastSignInAt"`
	ImageURL     string  `json:"imageUrl"`
}

// ListQuery is the resolved per-request query spec for the admin listing.
type ListQuery struct {
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
	RoleFilter string
	Search     string
}

// Offset converts page/limit into the directory's offset parameter.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination is derived strictly from the directory's total count:
// hasNextPage = page < totalPages, hasPreviousPage = page > 1.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalCount      int  `json:"totalCount"`
	Limit           int  `json:"limit"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Filters echoes the resolved filter values back to the caller.
type Filters struct {
	SortBy      string `json:"sortBy"`
	SortOrder   string `json:"sortOrder"`
	RoleFilter  string `json:"roleFilter"`
	SearchQuery string `json:"searchQuery"`
}

// RoleDistribution counts principals per role over the statistics fetch.
type RoleDistribution struct {
	Coaches  int `json:"coaches"`
	Athletes int `json:"athletes"`
	NoRole   int `json:"noRole"`
}

// Statistics is the request-time population snapshot. All counts except
// TotalUsers are computed over a capped bulk fetch and are approximate once
// the population exceeds the cap.
type Statistics struct {
	TotalUsers       int              `json:"totalUsers"`
	RoleDistribution RoleDistribution `json:"roleDistribution"`
	RecentSignups    int              `json:"recentSignups"`
	ActiveUsers      int              `json:"activeUsers"`
	GrowthRate       float64          `json:"growthRate"`
}

// AdminUsersResponse is the composed payload of the admin listing endpoint.
type AdminUsersResponse struct {
	Users      []AdminUser `json:"users"`
	Statistics Statistics  `json:"statistics"`
	Pagination Pagination  `json:"pagination"`
	Filters    Filters     `json:"filters"`
}
