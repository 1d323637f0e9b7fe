// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/product_service/internal/db"
	"github.com/Skotchmaster/product_service/internal/hash"
	"github.com/Skotchmaster/product_service/internal/models"
)

// New returns a migrated in-memory database private to t.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return gdb
}

// SeedUser stores a user whose password is hashed with bcrypt.
func SeedUser(t *testing.T, gdb *gorm.DB, username, password string) models.User {
	t.Helper()

	h, err := hash.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := models.User{Username: username, PasswordHash: h}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProduct(t *testing.T, gdb *gorm.DB, ownerID uint, name string, price float64) models.Product {
	t.Helper()

	p := models.Product{Name: name, Price: price, UserID: ownerID}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}
