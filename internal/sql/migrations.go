package sql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/idgate/idgate/internal/logr"
)

var (
	mu sync.Mutex

	//go:embed migrations/*.sql
	migrations embed.FS
)

// migrate migrates the database to the latest migration version. It uses a
// dedicated connection because migrations must not run concurrently.
func migrate(ctx context.Context, logger logr.Logger, connString string) error {
	mu.Lock()
	defer mu.Unlock()

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	if err := m.LoadMigrations(sub); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	current, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return err
	}
	if current == int32(len(m.Migrations)) {
		return nil
	}

	logger.Info("migrating database", "from", current, "to", len(m.Migrations))

	return m.Migrate(ctx)
}
