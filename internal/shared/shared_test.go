package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/platform/httpx"
)

func TestCSRFTokenLifecycle(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := NewSession()
	ctx := context.Background()

	token, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	again, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, m.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, token+"x"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.VerifyToken(ctx, NewSession(), token), ErrCSRFTokenMissing)
	_, err = m.EnsureToken(ctx, nil)
	assert.ErrorIs(t, err, ErrCSRFTokenMissing)

	rotated, err := m.Rotate(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, token, rotated)
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, token), ErrCSRFTokenMismatch)
	assert.NoError(t, m.VerifyToken(ctx, sess, rotated))
}

func TestCSRFTokenIsBoundToSession(t *testing.T) {
	m := NewCSRFManager("secret")
	ctx := context.Background()
	victim := NewSession()
	token, err := m.EnsureToken(ctx, victim)
	require.NoError(t, err)

	// A token planted into another session's store still fails the MAC.
	other := NewSession()
	other.Set(CSRFSessionKey, token)
	assert.ErrorIs(t, m.VerifyToken(ctx, other, token), ErrCSRFTokenMismatch)

	forged := NewCSRFManager("other-secret")
	assert.ErrorIs(t, forged.VerifyToken(ctx, victim, token), ErrCSRFTokenMismatch)

	req := httptest.NewRequest(http.MethodPost, "/cases", nil)
	req.Header.Set(CSRFHeader, " "+token+" ")
	assert.Equal(t, token, FromRequest(req))
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	_, ok = IdentityFromContext(ContextWithIdentity(context.Background(), Identity{}))
	assert.False(t, ok, "an identity without a user id is anonymous")

	id := Identity{UserID: "USR-001", Name: "Insp. Ravi Kumar", Roles: []Role{RolePolice, RoleForensic}, ActiveRole: RolePolice}
	got, ok := IdentityFromContext(ContextWithIdentity(context.Background(), id))
	require.True(t, ok)
	assert.True(t, got.CanActAs(RoleForensic))
	assert.False(t, got.CanActAs(RoleJudiciary))
	assert.Equal(t, "Insp. Ravi Kumar", got.Actor())
	assert.Equal(t, "USR-009", Identity{UserID: "USR-009"}.Actor())
}

func TestAuditFromIdentity(t *testing.T) {
	log := AuditFromIdentity(context.Background(), ActionCreate, EntityCase, "CASE-2024-001", "")
	assert.Equal(t, "system", log.Actor)
	assert.Empty(t, log.Role)

	ctx := ContextWithIdentity(context.Background(), Identity{UserID: "USR-003", Name: "Hon. Justice Priya Sharma", ActiveRole: RoleJudiciary})
	log = AuditFromIdentity(ctx, ActionStatusChange, EntityCase, "CASE-2024-001", "Active -> Closed")
	assert.Equal(t, "Hon. Justice Priya Sharma", log.Actor)
	assert.Equal(t, RoleJudiciary, log.Role)
	assert.NoError(t, log.Validate())
	assert.Error(t, AuditLog{Action: ActionCreate}.Validate())
}

func TestParseRoleAndPermissions(t *testing.T) {
	role, ok := ParseRole(" forensic ")
	require.True(t, ok)
	assert.Equal(t, RoleForensic, role)
	_, ok = ParseRole("Clerk")
	assert.False(t, ok)

	assert.Contains(t, RolePermissions(RoleAdmin), PermUsersEdit)
	assert.NotContains(t, RolePermissions(RolePolice), PermUsersView)
	assert.Empty(t, RolePermissions(Role("Clerk")))

	perms := RolePermissions(RolePolice)
	perms[0] = "tampered"
	assert.NotEqual(t, "tampered", RolePermissions(RolePolice)[0])
}

func TestUserSafeMessage(t *testing.T) {
	assert.Equal(t, "Invalid email or password", UserSafeMessage(ErrInvalidCredentials))
	assert.Equal(t, "You cannot act in that role", UserSafeMessage(ErrRoleNotAssigned))
	assert.Equal(t, "Record not found", UserSafeMessage(httpx.ErrNotFound))
	assert.Equal(t, "Something went wrong, please try again", UserSafeMessage(errors.New("boom")))
	assert.Empty(t, UserSafeMessage(nil))
	assert.ErrorIs(t, ErrInvalidCredentials, httpx.ErrUnauthorized)
}
