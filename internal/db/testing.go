package db

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	TestPostgresqlURLEnv  = "TEST_POSTGRESQL_URL"
	TestMigrationsPathEnv = "TEST_MIGRATIONS_PATH"
)

// IsTestDBConfigured tells whether repository tests can reach a database.
func IsTestDBConfigured() bool {
	return os.Getenv(TestPostgresqlURLEnv) != ""
}

func CreateTestPool() *pgxpool.Pool {
	connString := os.Getenv(TestPostgresqlURLEnv)
	if connString == "" {
		panic("TEST_POSTGRESQL_URL must be set.")
	}
	migrationsPath := os.Getenv(TestMigrationsPathEnv)
	if migrationsPath == "" {
		migrationsPath = "../../../migrations"
	}
	if err := ApplyMigrations(connString, migrationsPath); err != nil {
		panic(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE \"user\" RESTART IDENTITY")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
