package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catcoin/pos-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no %s migration file found", suffix)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestProductsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_products")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (price >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_name",
		"DROP TABLE IF EXISTS products",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSalesMigrationKeepsHistoryIndependentOfCatalog(t *testing.T) {
	content := readMigration(t, "create_sales")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"CHECK (total = subtotal + tax)",
		"CHECK (payment_method IN ('cash', 'card'))",
		"REFERENCES sales(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS sale_line_items",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
	if strings.Contains(content, "REFERENCES products") {
		t.Error("sale line items must not reference the catalog")
	}
}

func TestDailyStatsMigrationIsKeyedByDate(t *testing.T) {
	content := readMigration(t, "create_daily_stats")
	require.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_stats_date ON daily_stats (date)")
	require.Contains(t, content, "DROP TABLE IF EXISTS daily_stats")
}

func TestMigrationsDirValidates(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
	require.NoError(t, migrate.RequireTables("migrations", migrate.RegisterTables...))
}

func TestListDirReportsTablesInVersionOrder(t *testing.T) {
	files, err := migrate.ListDir("migrations")
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, []string{"products"}, files[0].Created)
	assert.Equal(t, []string{"sales", "sale_line_items"}, files[1].Created)
	assert.Equal(t, []string{"sale_line_items", "sales"}, files[1].Dropped)
	assert.Equal(t, []string{"daily_stats"}, files[2].Created)
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1].Version, files[i].Version)
	}
}

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestValidateDirRequiresDownToDropCreatedTables(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250401090000_create_shifts.sql", `-- +goose Up
-- +goose StatementBegin
CREATE TABLE IF NOT EXISTS shifts (id BIGSERIAL PRIMARY KEY);
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
SELECT 1;
-- +goose StatementEnd
`)
	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shifts")
}

func TestValidateDirRejectsUnbalancedStatements(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20250401090000_add_sku.sql", "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n")
	require.Error(t, migrate.ValidateDir(dir))
}

func TestRequireTablesReportsMissing(t *testing.T) {
	err := migrate.RequireTables("migrations", "products", "shifts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shifts")
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Product SKU!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_product_sku.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	files, err := migrate.ListDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0].Path)

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
