package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"tracksys/internal/core/auth"
	"tracksys/internal/domain"
	"tracksys/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 每个连接是独立库，收敛到单连接
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.All()...))
	return db
}

func newTestJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "tracksys-test", TTL: time.Hour}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        email,
		PasswordHash: utils.HashPassword("secret123"),
		Role:         domain.RoleDeveloper,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProject(t *testing.T, db *gorm.DB, name string, members ...*domain.User) *domain.Project {
	t.Helper()
	p := &domain.Project{Name: name}
	require.NoError(t, db.Create(p).Error)
	for _, u := range members {
		m := &domain.ProjectMember{ProjectID: p.ID, UserID: u.ID, Role: u.Role}
		require.NoError(t, db.Create(m).Error)
	}
	return p
}

func seedIssue(t *testing.T, db *gorm.DB, projectID uint, title string) *domain.Issue {
	t.Helper()
	i := &domain.Issue{
		Title:     title,
		Status:    domain.StatusTodo,
		Type:      domain.TypeTask,
		Priority:  3,
		ProjectID: projectID,
	}
	require.NoError(t, db.Create(i).Error)
	return i
}

func testCtx() context.Context { return context.Background() }

func nopLogger() *zap.Logger { return zap.NewNop() }

func count[T any](t *testing.T, db *gorm.DB, query string, args ...any) int64 {
	t.Helper()
	var model T
	var n int64
	q := db.Model(&model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
