package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"marinaops/internal/app"
	"marinaops/internal/auth"
	"marinaops/internal/config"
	"marinaops/internal/db"
	"marinaops/internal/importer"
	"marinaops/internal/logging"
)

func main() {
	var (
		filePath string
		vendorID int64
		owner    string
	)
	flag.StringVar(&filePath, "file", "", "Path to the vendor price list CSV")
	flag.Int64Var(&vendorID, "vendor", 0, "Vendor id the items belong to")
	flag.StringVar(&owner, "owner", "", "Email of the customer owner (or one of their users) running the import")
	flag.Parse()

	if filePath == "" || vendorID <= 0 || owner == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr).With().Str("cmd", "importer").Logger()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: 4})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	repos := app.Postgres(pool, &logger)
	services := app.Wire(repos, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), nil, &logger)

	u, err := repos.Users.GetByEmail(ctx, owner)
	if err != nil {
		logger.Fatal().Err(err).Str("owner", owner).Msg("load owner")
	}
	caller := auth.CallerFromUser(*u)
	scope, err := services.Resolver.Resolve(ctx, caller, caller.DefaultOwnerID())
	if err != nil {
		logger.Fatal().Err(err).Str("owner", owner).Msg("resolve scope")
	}
	if _, err := services.Vendors.Get(ctx, scope, vendorID); err != nil {
		logger.Fatal().Err(err).Int64("vendor", vendorID).Msg("load vendor")
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, services.Inventory, services.References, scope, vendorID, &logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Int("imported", count).Msg("import failed")
	}

	fmt.Printf("Imported %d items for vendor %d in %s\n", count, vendorID, time.Since(start).Truncate(time.Millisecond))
}
