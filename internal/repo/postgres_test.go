package repo

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_service/internal/db"
	"github.com/Skotchmaster/product_service/internal/models"
	"github.com/Skotchmaster/product_service/internal/transport"
)

func openPostgres(t *testing.T, driver string) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("PRODUCT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PRODUCT_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, dsn, driver)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedPostgresUser(t *testing.T, gdb *gorm.DB) models.User {
	t.Helper()

	u := models.User{Username: "pg-" + uuid.NewString(), PasswordHash: "x"}
	require.NoError(t, gdb.Create(&u).Error)
	t.Cleanup(func() { gdb.Delete(&models.User{}, u.ID) })
	return u
}

func TestPostgres_ConcurrentForeignUpdatesNeverLand(t *testing.T) {
	for _, driver := range []string{"pgx", "pq"} {
		t.Run(driver, func(t *testing.T) {
			gdb := openPostgres(t, driver)
			r := New(gdb)
			ctx := context.Background()

			owner := seedPostgresUser(t, gdb)
			intruder := seedPostgresUser(t, gdb)

			p, err := r.CreateProduct(ctx, &models.Product{Name: "Lamp", Price: 10, UserID: owner.ID})
			require.NoError(t, err)

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := r.UpdateOwnedProduct(ctx, p.ID, intruder.ID, transport.PatchProductRequest{Name: ptr("Stolen")})
					assert.ErrorIs(t, err, ErrNotOwner)
				}()
				go func() {
					defer wg.Done()
					_, err := r.UpdateOwnedProduct(ctx, p.ID, owner.ID, transport.PatchProductRequest{Price: ptr(12.34)})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := r.GetProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "Lamp", got.Name)
			assert.Equal(t, owner.ID, got.UserID)
			assert.InDelta(t, 12.34, got.Price, 0.001)

			_, err = r.DeleteOwnedProduct(ctx, p.ID, owner.ID)
			require.NoError(t, err)
		})
	}
}
