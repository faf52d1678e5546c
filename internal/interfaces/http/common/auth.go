package common

import "context"

type contextKey string

const authUserContextKey contextKey = "authUser"

// ロールは JWT の role クレームから取り出す。未指定は出店者扱い。
const (
	RoleExhibitor = "exhibitor"
	RoleOrganizer = "organizer"
)

// AuthenticatedUser represents the JWT-derived principal.
type AuthenticatedUser struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// IsOrganizer は主催者ロールかどうかを返す。
func (u AuthenticatedUser) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}
