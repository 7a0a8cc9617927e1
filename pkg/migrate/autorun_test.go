package migrate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catcoin/pos-backend/pkg/db/dbtest"
	"github.com/catcoin/pos-backend/pkg/db/models"
)

func TestAutoMigrateCreatesPOSTables(t *testing.T) {
	client := dbtest.Open(t)
	migrator := client.DB().Migrator()

	for _, model := range models.All() {
		require.True(t, migrator.HasTable(model), "missing table for %T", model)
	}
}
