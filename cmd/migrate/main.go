package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
	"github.com/mandi2mandi/marketguard/internal/pkg/database"
	dotenv "github.com/mandi2mandi/marketguard/internal/pkg/env"
)

func main() {
	dotenv.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var dbCfg config.Database
	if err := env.Parse(&dbCfg, env.Options{Environment: dotenv.Environ()}); err != nil {
		log.Fatalf("[Migrate] Invalid database configuration: %v", err)
	}

	log.Infof("[Migrate] Connecting to database: %s@%s:%s/%s", dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Name)

	m, err := migrate.New("file://migrations", database.MigrateURL(dbCfg))
	if err != nil {
		log.Fatalf("[Migrate] Could not initialise migrations: %v", err)
	}

	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Warnf("[Migrate] Closing migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command := os.Args[1]; command {
	case "up":
		if err := m.Up(); errors.Is(err, migrate.ErrNoChange) {
			log.Info("[Migrate] No change: database is up to date")
		} else if err != nil {
			log.Fatalf("[Migrate] Running migrations failed: %v", err)
		} else {
			log.Info("[Migrate] Migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatalf("[Migrate] Rolling back last migration failed: %v", err)
		}
		log.Info("[Migrate] Last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			log.Fatal("[Migrate] goto needs a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("[Migrate] Invalid version number: %v", err)
		}
		if err := m.Migrate(uint(version)); errors.Is(err, migrate.ErrNoChange) {
			log.Infof("[Migrate] No change: database already at version %d", version)
		} else if err != nil {
			log.Fatalf("[Migrate] Migrating to version %d failed: %v", version, err)
		} else {
			log.Infof("[Migrate] Migrated to version %d", version)
		}

	case "status":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("[Migrate] No migrations applied yet")
			return
		}
		if err != nil {
			log.Fatalf("[Migrate] Reading migration version failed: %v", err)
		}
		dirtyStatus := ""
		if dirty {
			dirtyStatus = " (dirty)"
		}
		log.Infof("[Migrate] Current version: %d%s", version, dirtyStatus)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current migration version")
}
