package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateResult reports the schema state after a migration run.
type MigrateResult struct {
	Version  uint
	Dirty    bool
	NoChange bool
}

// Migrate applies the migrations found under dir to the database at dsn.
// direction is "up" or "down"; steps of 0 migrates all the way.
//
// Precondition: dir must be a directory of golang-migrate SQL files.
// Postcondition: Returns the resulting schema version, or an error.
func Migrate(dsn, dir, direction string, steps int) (MigrateResult, error) {
	if steps < 0 {
		return MigrateResult{}, fmt.Errorf("steps must be >= 0, got %d", steps)
	}
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		return MigrateResult{}, fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}

	var res MigrateResult
	if errors.Is(err, migrate.ErrNoChange) {
		res.NoChange = true
	} else if err != nil {
		return MigrateResult{}, fmt.Errorf("migrating %s: %w", direction, err)
	}
	res.Version, res.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("reading schema version: %w", err)
	}
	return res, nil
}
