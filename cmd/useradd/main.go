// Command useradd creates a user that can log in to the product service.
//
//	useradd -username otter -password password
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Skotchmaster/product_service/internal/config"
	"github.com/Skotchmaster/product_service/internal/db"
	"github.com/Skotchmaster/product_service/internal/hash"
	"github.com/Skotchmaster/product_service/internal/models"
	"github.com/Skotchmaster/product_service/internal/repo"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "plaintext password, stored as a bcrypt hash")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	id, err := addUser(ctx, repo.New(gdb), *username, *password)
	if err != nil {
		log.Fatalf("useradd: %v", err)
	}
	fmt.Printf("created user %q with id %d\n", *username, id)
}

func addUser(ctx context.Context, r *repo.GormRepo, username, password string) (uint, error) {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, PasswordHash: pwHash}
	if err := r.CreateUser(ctx, &user); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}
