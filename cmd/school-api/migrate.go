package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-admin-api/pkg/config"
	"github.com/noah-isme/school-admin-api/pkg/database"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations, or roll back the latest with --down",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if migrateDown {
			version, err := database.Rollback(cmd.Context(), db)
			if err != nil {
				return err
			}
			if version == 0 {
				cmd.Println("nothing to roll back")
				return nil
			}
			cmd.Printf("rolled back migration %03d\n", version)
			return nil
		}

		applied, err := database.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			cmd.Println("schema is up to date")
			return nil
		}
		for _, v := range applied {
			cmd.Printf("applied migration %03d\n", v)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back the most recent migration")
	rootCmd.AddCommand(migrateCmd)
}
