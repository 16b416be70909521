package postgres

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// NewMigrator discovers the .up.sql/.down.sql pairs in fsys.
func NewMigrator(db *bun.DB, fsys fs.FS, opts ...migrate.MigratorOption) (*migrate.Migrator, error) {
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(fsys); err != nil {
		return nil, fmt.Errorf("discover migrations: %w", err)
	}
	return migrate.NewMigrator(db, migrations, opts...), nil
}

// Migrate applies every migration in fsys not yet recorded in the version
// table. Concurrent callers serialize on the migrator's lock table. The
// returned group is zero when there was nothing to apply.
func Migrate(ctx context.Context, db *bun.DB, fsys fs.FS, opts ...migrate.MigratorOption) (*migrate.MigrationGroup, error) {
	migrator, err := NewMigrator(db, fsys, opts...)
	if err != nil {
		return nil, err
	}
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migration tables: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("lock migrations: %w", err)
	}
	defer func() {
		_ = migrator.Unlock(ctx)
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return group, nil
}
