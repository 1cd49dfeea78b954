package auth

import (
	"testing"

	"github.com/lumen-studio/site-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.UserSession{}))
	return NewService(db)
}

func TestRegisterIsSingleUse(t *testing.T) {
	svc := testService(t)

	user, err := svc.Register(&RegisterDTO{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Name)
	assert.NotEqual(t, "correct horse", user.Password)

	_, err = svc.Register(&RegisterDTO{Username: "other", Password: "another pass"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestLoginIssuesSessionToken(t *testing.T) {
	svc := testService(t)
	_, err := svc.Register(&RegisterDTO{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	token, user, expiresAt, err := svc.Login(&LoginDTO{Username: "admin", Password: "correct horse"}, "127.0.0.1", "cli")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", user.Username)
	assert.False(t, expiresAt.IsZero())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := testService(t)
	_, err := svc.Register(&RegisterDTO{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	_, _, _, err = svc.Login(&LoginDTO{Username: "admin", Password: "wrong"}, "", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, _, err = svc.Login(&LoginDTO{Username: "ghost", Password: "whatever"}, "", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := testService(t)
	_, err := svc.Register(&RegisterDTO{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	_, user, _, err := svc.Login(&LoginDTO{Username: "admin", Password: "correct horse"}, "", "")
	require.NoError(t, err)

	var sess models.UserSession
	require.NoError(t, svc.db.First(&sess, "user_id = ?", user.ID).Error)

	require.NoError(t, svc.Logout(user.ID, sess.ID))
	require.NoError(t, svc.db.First(&sess, "id = ?", sess.ID).Error)
	assert.NotNil(t, sess.RevokedAt)

	// Logging out an already revoked session is harmless.
	assert.NoError(t, svc.Logout(user.ID, sess.ID))
}
