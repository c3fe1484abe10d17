package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "catalog")
	dbSSLMode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode)

	// A hosted database already exists; only create it for local setups
	if dsnEnv := os.Getenv("DATABASE_URL"); dsnEnv != "" {
		dsn = dsnEnv
	} else {
		postgresDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=%s",
			dbUser, dbPassword, dbHost, dbPort, dbSSLMode)
		if err := ensureDatabase(postgresDSN, dbName); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	files, err := migrationFiles(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	for _, path := range files {
		sqlBytes, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration file %s: %v\n", path, err)
			os.Exit(1)
		}

		// The whole file runs as one multi-statement Exec
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				fmt.Fprintf(os.Stderr, "Error executing migration %s: %v\n", path, err)
				os.Exit(1)
			}
			fmt.Printf("%s already applied (some objects already exist)\n", filepath.Base(path))
			continue
		}
		fmt.Printf("Applied %s\n", filepath.Base(path))
	}

	fmt.Println("Migration completed successfully!")
}

// migrationFiles returns the explicit paths, or every migrations/*.up.sql in name order
func migrationFiles(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join("migrations", "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in ./migrations")
	}
	sort.Strings(files)
	return files, nil
}

func ensureDatabase(postgresDSN, dbName string) error {
	postgresDB, err := sql.Open("postgres", postgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer postgresDB.Close()

	var exists bool
	err = postgresDB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}
	if exists {
		return nil
	}

	fmt.Printf("Database '%s' does not exist. Creating...\n", dbName)
	if _, err := postgresDB.Exec(fmt.Sprintf("CREATE DATABASE %q", dbName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	fmt.Printf("Database '%s' created successfully.\n", dbName)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
