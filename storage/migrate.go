package storage

import (
	"embed"
	"fmt"
	"log"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations
var migrationFiles embed.FS

// MigrationDirection é o sentido de uma execução de Migrate.
type MigrationDirection = migrate.MigrationDirection

// Direções de migração aceitas por Migrate.
const (
	MigrateUp   = migrate.Up
	MigrateDown = migrate.Down
)

// migrationSource escolhe o diretório de migrações do dialeto.
func (d *DB) migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations/" + string(d.dialect),
	}
}

// migrateDialect traduz o dialeto para o nome usado pelo sql-migrate.
func (d *DB) migrateDialect() string {
	if d.dialect == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Migrate aplica (ou desfaz) até max migrações; max 0 significa todas.
func (d *DB) Migrate(dir MigrationDirection, max int) (int, error) {
	n, err := migrate.ExecMax(d.DB.DB, d.migrateDialect(), d.migrationSource(), dir, max)
	if err != nil {
		return 0, fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return n, nil
}

// MigrationStatus descreve uma migração conhecida e se já foi aplicada.
type MigrationStatus struct {
	ID      string
	Applied bool
}

// MigrationStatuses lista as migrações embutidas e o estado de cada uma.
func (d *DB) MigrationStatuses() ([]MigrationStatus, error) {
	known, err := d.migrationSource().FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("falha ao listar migrações: %w", err)
	}
	records, err := migrate.GetMigrationRecords(d.DB.DB, d.migrateDialect())
	if err != nil {
		return nil, fmt.Errorf("falha ao ler migrações aplicadas: %w", err)
	}
	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.Id] = true
	}

	statuses := make([]MigrationStatus, 0, len(known))
	for _, m := range known {
		statuses = append(statuses, MigrationStatus{ID: m.Id, Applied: applied[m.Id]})
	}
	return statuses, nil
}
