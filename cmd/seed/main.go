// Command seed loads a set of demo accounts into the database for local
// development. Existing accounts with the same email are left alone, so the
// command is safe to run more than once.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/infrastructure/config"
	mongodb "github.com/koptay/client-portal/internal/infrastructure/db/mongo"
	"github.com/koptay/client-portal/pkg/logger"
)

type seedAccount struct {
	user     domain.User
	password string
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	zlog := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer mongoClient.Disconnect(context.Background())

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("index creation failed")
	}

	accounts := []seedAccount{
		{
			user: domain.User{
				Email:    "admin@koptay.av.tr",
				FullName: "Mehmet Koptay",
				Role:     domain.RoleAdmin,
			},
			password: "admin123",
		},
		{
			user: domain.User{
				Email:    "avukat@koptay.av.tr",
				FullName: "Zeynep Kaya",
				Role:     domain.RoleLawyer,
			},
			password: "avukat123",
		},
		{
			user: domain.User{
				Email:      "ayse@example.com",
				FullName:   "Ayşe Yılmaz",
				Phone:      "+90 555 111 2233",
				NationalID: "12345678901",
				Role:       domain.RoleIndividual,
			},
			password: "secret",
		},
		{
			user: domain.User{
				Email:       "muhasebe@yilmazinsaat.com.tr",
				FullName:    "Yılmaz İnşaat A.Ş.",
				TaxNumber:   "1234567890",
				CompanyName: "Yılmaz İnşaat A.Ş.",
				Role:        domain.RoleCorporate,
			},
			password: "secret",
		},
	}

	for _, acc := range accounts {
		if _, err := users.FindByEmail(ctx, acc.user.Email); err == nil {
			zlog.Info().Str("email", acc.user.Email).Msg("account exists, skipping")
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			zlog.Fatal().Err(err).Str("email", acc.user.Email).Msg("lookup failed")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			zlog.Fatal().Err(err).Msg("password hashing failed")
		}

		u := acc.user
		u.PasswordHash = string(hash)
		u.IsActive = true
		u.IsVerified = true
		u.CreatedAt = time.Now().UTC()

		created, err := users.Create(ctx, &u)
		if err != nil {
			zlog.Fatal().Err(err).Str("email", u.Email).Msg("create failed")
		}
		zlog.Info().
			Int64("id", created.ID).
			Str("email", created.Email).
			Str("role", string(created.Role)).
			Msg("account seeded")
	}
}
