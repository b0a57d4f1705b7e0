package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm/schema"

	"github.com/rentiva/rentiva-backend/pkg/db/models"
)

// The repo tests that would notice a model/migration column mismatch only run
// against a live postgres, so the SQL files are cross-checked here instead.
func TestMigrationsDefineEveryModelColumn(t *testing.T) {
	cases := []struct {
		model any
		glob  string
	}{
		{&models.Product{}, "*_create_products.sql"},
		{&models.ProductVideo{}, "*_create_product_videos.sql"},
		{&models.User{}, "*_create_users.sql"},
		{&models.CartItem{}, "*_create_cart_items.sql"},
	}

	for _, tc := range cases {
		parsed, err := schema.Parse(tc.model, &sync.Map{}, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse model schema: %v", err)
		}

		t.Run(parsed.Table, func(t *testing.T) {
			columns := migrationColumns(t, tc.glob)
			for _, name := range parsed.DBNames {
				if !columns[name] {
					t.Errorf("model column %q not present in %s migration", name, parsed.Table)
				}
			}
		})
	}
}

// migrationColumns returns the first token of every line inside the
// CREATE TABLE block of the matching migration file.
func migrationColumns(t *testing.T, glob string) map[string]bool {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", glob))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %q", glob)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}

	columns := map[string]bool{}
	inTable := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "CREATE TABLE") {
			inTable = true
			continue
		}
		if inTable && strings.HasPrefix(trimmed, ");") {
			break
		}
		if !inTable || trimmed == "" {
			continue
		}
		columns[strings.Fields(trimmed)[0]] = true
	}
	return columns
}
