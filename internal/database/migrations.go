package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"even/internal/config"
	"even/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned SQL script pair from migrations/.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	loaded, err := loadMigrations(migrationFS, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations: %v", err))
	}
	migrations = loaded
}

// loadMigrations reads NNNNNN_name.up.sql / .down.sql pairs from dir,
// ordered by version. A missing down script or a reused version is an error.
func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if entry.IsDir() || !ok {
			continue
		}
		rawVersion, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %q: expected NNNNNN_name.up.sql", entry.Name())
		}
		version, err := strconv.Atoi(rawVersion)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %q: bad version %q", entry.Name(), rawVersion)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %d used by both %s and %s", version, prev, base)
		}
		seen[version] = base

		up, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", base, err)
		}
		out = append(out, Migration{Version: version, Name: name, UpScript: string(up), DownScript: string(down)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	return out, nil
}

func GetMigrations() []Migration {
	return migrations
}

func GetMigrationByVersion(version int) *Migration {
	for i := range migrations {
		if migrations[i].Version == version {
			m := migrations[i]
			return &m
		}
	}
	return nil
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (AppliedMigration) TableName() string {
	return "schema_migrations"
}

// MigrationStore tracks which versions have been applied.
type MigrationStore interface {
	AppliedVersions(ctx context.Context) ([]int, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

type migrationStore struct {
	db *gorm.DB
}

func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

func (s *migrationStore) ensureTable(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&AppliedMigration{})
}

func (s *migrationStore) AppliedVersions(ctx context.Context) ([]int, error) {
	if !s.db.Migrator().HasTable(&AppliedMigration{}) {
		return []int{}, nil
	}
	var versions []int
	err := s.db.WithContext(ctx).Model(&AppliedMigration{}).Order("version").Pluck("version", &versions).Error
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return versions, nil
}

// Apply runs the up script and records it in one transaction, so a failed
// script leaves no record behind.
func (s *migrationStore) Apply(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("apply %s: %w", m.String(), err)
		}
		return tx.Create(&AppliedMigration{Version: m.Version, Name: m.Name}).Error
	})
}

func (s *migrationStore) Revert(ctx context.Context, m Migration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("revert %s: %w", m.String(), err)
		}
		return tx.Where("version = ?", m.Version).Delete(&AppliedMigration{}).Error
	})
}

// RunMigrations applies every registered migration not yet recorded.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	store := &migrationStore{db: db}
	if err := store.ensureTable(ctx); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err := store.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	for _, m := range migrations {
		if slices.Contains(applied, m.Version) {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.String("migration", m.String()))
		if err := store.Apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// validateAppliedVersions refuses to run against a database that has
// versions this binary does not know, e.g. after a downgrade.
func validateAppliedVersions(applied []int, registered []Migration) error {
	var unknown []string
	for _, version := range applied {
		known := slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == version })
		if !known {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("schema_migrations has versions unknown to this build: %s", strings.Join(unknown, ", "))
}

// RollbackMigration reverts one applied migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	store := NewMigrationStore(db)
	applied, err := store.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %s has not been applied", m.String())
	}

	middleware.Logger.Info("Rolling back migration", slog.String("migration", m.String()))
	return store.Revert(ctx, *m)
}

// ApplySchema brings db up to date with the embedded SQL migrations. With
// DB_AUTOMIGRATE set, GORM AutoMigrate then adds model columns and indexes
// no migration covers yet; that is refused in production-like environments.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.DBAutoMigrate && isProdLikeEnv(cfg.Env) {
		return autoMigrateRefused(cfg.Env)
	}
	if err := RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run sql migrations: %w", err)
	}
	if !cfg.DBAutoMigrate {
		return nil
	}
	return AutoMigrate(ctx, db, cfg)
}

// AutoMigrate runs GORM AutoMigrate over PersistentModels.
func AutoMigrate(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if isProdLikeEnv(cfg.Env) {
		return autoMigrateRefused(cfg.Env)
	}
	middleware.Logger.Info("Running GORM AutoMigrate", slog.String("env", cfg.Env))
	if err := runAutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func runAutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

func autoMigrateRefused(env string) error {
	return fmt.Errorf("refusing GORM AutoMigrate in %q; add a SQL migration instead", env)
}

// SchemaStatus compares a database with this build's migrations and models.
type SchemaStatus struct {
	Environment     string
	AutoMigrate     bool
	AppliedVersions []int
	Pending         []Migration
	// MissingTables names model and join tables absent from the database.
	MissingTables []string
}

func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	applied, err := NewMigrationStore(db).AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Environment:     cfg.Env,
		AutoMigrate:     cfg.DBAutoMigrate && !isProdLikeEnv(cfg.Env),
		AppliedVersions: applied,
	}
	for _, m := range migrations {
		if !slices.Contains(applied, m.Version) {
			status.Pending = append(status.Pending, m)
		}
	}

	status.MissingTables, err = missingTables(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return status, nil
}

func missingTables(db *gorm.DB) ([]string, error) {
	var missing []string
	check := func(table string) {
		if !db.Migrator().HasTable(table) && !slices.Contains(missing, table) {
			missing = append(missing, table)
		}
	}
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		check(stmt.Schema.Table)
		for _, rel := range stmt.Schema.Relationships.Many2Many {
			check(rel.JoinTable.Table)
		}
	}
	return missing, nil
}
