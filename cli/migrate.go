package cli

import (
	"fmt"
	"strconv"

	"github.com/ferreirogomes/fracoes/storage"
	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Gerencia o esquema do banco",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica as migrações pendentes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, storage.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Desfaz migrações (uma por padrão)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps == 0 {
			migrateSteps = 1
		}
		return runMigrate(cmd, storage.MigrateDown)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Mostra quais migrações foram aplicadas",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		statuses, err := db.MigrationStatuses()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range statuses {
			state := "pendente"
			if s.Applied {
				state = "aplicada"
			}
			fmt.Fprintf(out, "%-30s %s\n", s.ID, state)
		}
		return nil
	},
}

func init() {
	migrateCmd.PersistentFlags().IntVarP(&migrateSteps, "steps", "n", 0, "número máximo de migrações (0 = todas)")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

// openStore abre o banco sem migrar automaticamente.
func openStore() (*storage.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts := cfg.Database.StorageOptions()
	opts.MigrateOnStart = false
	return storage.NewDB(opts)
}

func runMigrate(cmd *cobra.Command, dir storage.MigrationDirection) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Migrate(dir, migrateSteps)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrações executadas: "+strconv.Itoa(n))
	return nil
}
