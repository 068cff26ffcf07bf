package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracksys/internal/apperr"
	"tracksys/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestJWTer())

	out, err := svc.Register(testCtx(), RegisterIn{
		Email:    "alice@example.com",
		Password: "s3cret",
		FullName: "Alice",
	})
	require.NoError(t, err)
	assert.NotZero(t, out.ID)
	assert.Equal(t, "alice@example.com", out.Email)
	assert.Equal(t, domain.RoleDeveloper, out.Role)

	tok, err := svc.Login(testCtx(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestJWTer())

	first, err := svc.Register(testCtx(), RegisterIn{Email: "dup@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(testCtx(), RegisterIn{Email: "dup@example.com", Password: "other"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// 第一次注册的用户不受影响
	var u domain.User
	require.NoError(t, db.First(&u, first.ID).Error)
	assert.Equal(t, "dup@example.com", u.Email)
	assert.EqualValues(t, 1, count[domain.User](t, db, "email = ?", "dup@example.com"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestJWTer())

	_, err := svc.Register(testCtx(), RegisterIn{Email: "bob@example.com", Password: "right"})
	require.NoError(t, err)

	_, err = svc.Login(testCtx(), "bob@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.Login(testCtx(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestPasswordHashNeverReturned(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestJWTer())

	out, err := svc.Register(testCtx(), RegisterIn{Email: "x@example.com", Password: "pw"})
	require.NoError(t, err)

	var u domain.User
	require.NoError(t, db.First(&u, out.ID).Error)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "pw", u.PasswordHash) // 存的是哈希
}
