package service

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testPool *pgxpool.Pool

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	ctx := context.Background()

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			roles TEXT[] NOT NULL DEFAULT '{user}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			title TEXT UNIQUE NOT NULL,
			price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
			description TEXT NOT NULL DEFAULT '',
			slug TEXT UNIQUE NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			sizes TEXT[] NOT NULL DEFAULT '{}',
			gender TEXT NOT NULL CHECK (gender IN ('men', 'women', 'kid', 'unisex')),
			tags TEXT[] NOT NULL DEFAULT '{}',
			user_id UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS product_images (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range ddl {
		if _, err := testPool.Exec(ctx, stmt); err != nil {
			return dbContainer.Terminate, err
		}
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if testPool != nil {
		testPool.Close()
	}

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}
