package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNextMigrationNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []string
		want  int
	}{
		{name: "empty", want: 1},
		{name: "sequential", files: []string{"0001_kv.sql", "0002_reports.sql"}, want: 3},
		{name: "gap", files: []string{"0001_kv.sql", "0007_late.sql"}, want: 8},
		{name: "ignores other files", files: []string{"0001_kv.sql", "README.md", "notes.sql"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), nil, 0o600); err != nil {
					t.Fatal(err)
				}
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if got := nextMigrationNum(entries); got != tt.want {
				t.Errorf("nextMigrationNum() = %d, want %d", got, tt.want)
			}
		})
	}
}
