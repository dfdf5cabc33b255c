package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const (
	sqliteDir   = "internal/migrations/sql"
	postgresDir = "internal/migrations/postgres/sql"
)

func newMigrationCmd() *cobra.Command {
	var postgres bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := sqliteDir
			if postgres {
				dir = postgresDir
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("failed to read migrations directory: %w", err)
			}

			filename := filepath.Join(dir, fmt.Sprintf("%04d_%s.sql", nextMigrationNum(entries), args[0]))
			if _, err := os.Stat(filename); err == nil {
				return fmt.Errorf("migration file already exists: %s", filename)
			}

			content := fmt.Sprintf("-- Migration: %s\n\n", args[0])
			if err := os.WriteFile(filename, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to create migration file: %w", err)
			}

			cmd.Printf("Created migration: %s\n", filename)
			return nil
		},
	}
	cmd.Flags().BoolVar(&postgres, "postgres", false, "create the migration for the reports database")
	return cmd
}

func nextMigrationNum(entries []os.DirEntry) int {
	var last int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		var num int
		if _, err := fmt.Sscanf(prefix, "%d", &num); err != nil {
			continue
		}
		last = max(last, num)
	}
	return last + 1
}
