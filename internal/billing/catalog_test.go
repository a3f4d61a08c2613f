package billing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlansFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writePlansFile(t, `{
		"plans": [
			{"id": "starter", "name": "Starter", "price_cents": 2900, "currency": "EUR", "billing_period": "month", "trial_days": 14},
			{"id": "pro", "name": "Pro", "price_cents": 7900, "currency": "EUR", "billing_period": "month", "trial_days": 14}
		]
	}`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.True(t, catalog.Exists("starter"))
	assert.True(t, catalog.Exists("pro"))
	assert.False(t, catalog.Exists("enterprise"))

	pro := catalog.Get("pro")
	require.NotNil(t, pro)
	assert.Equal(t, 7900, pro.PriceCents)
	assert.Equal(t, 14, pro.TrialDays)

	assert.Nil(t, catalog.Get("nope"))
}

func TestLoadCatalogPreservesFileOrder(t *testing.T) {
	path := writePlansFile(t, `{
		"plans": [
			{"id": "c"},
			{"id": "a"},
			{"id": "b"}
		]
	}`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	all := catalog.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "b", all[2].ID)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadCatalogInvalidJSON(t *testing.T) {
	path := writePlansFile(t, `{not json`)
	_, err := LoadCatalog(path)
	assert.Error(t, err)
}

func TestRegisterReplacesWithoutDuplicatingOrder(t *testing.T) {
	catalog := NewCatalog()
	catalog.Register(&Plan{ID: "starter", PriceCents: 2900})
	catalog.Register(&Plan{ID: "starter", PriceCents: 3900})

	require.Len(t, catalog.All(), 1)
	assert.Equal(t, 3900, catalog.Get("starter").PriceCents)
}
