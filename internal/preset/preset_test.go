package preset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsclean/internal/cleanse"
)

func testSettings() cleanse.Options {
	return cleanse.Options{
		Conditions: []cleanse.FilterCondition{
			{Column: "AMBIENT_TEMP", Op: cleanse.OpGE, Value: 15},
			{Column: "FAN_CURRENT", Op: cleanse.OpRange, Low: 30, High: 60},
		},
		Outlier:       cleanse.Sigma25,
		Disposition:   cleanse.DropRow,
		Normalization: cleanse.NormalizeZScore,
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("night shift", "strict cleaning", testSettings()))

	p, err := store.Load("night shift")
	require.NoError(t, err)
	assert.Equal(t, "night shift", p.Name)
	assert.Equal(t, "strict cleaning", p.Description)
	assert.Equal(t, Version, p.Version)
	assert.Equal(t, testSettings(), p.Settings)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestStore_LoadByPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("byname", "", testSettings()))

	p, err := store.Load(filepath.Join(dir, "byname.json"))
	require.NoError(t, err)
	assert.Equal(t, "byname", p.Name)
}

func TestStore_List_SortedByName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("zeta", "", testSettings()))
	require.NoError(t, store.Save("alpha", "", testSettings()))

	presets, err := store.List()
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "alpha", presets[0].Name)
	assert.Equal(t, "zeta", presets[1].Name)
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("gone", "", testSettings()))
	require.NoError(t, store.Delete("gone"))

	_, err = store.Load("gone")
	assert.Error(t, err)
	assert.Error(t, store.Delete("gone"))
}

func TestStore_NameSanitization(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Path separators and dots are stripped from the file name.
	require.NoError(t, store.Save("../sneaky/../../etc", "", testSettings()))
	p, err := store.Load("sneakyetc")
	require.NoError(t, err)
	assert.Equal(t, "../sneaky/../../etc", p.Name, "the display name keeps its original form")

	err = store.Save("///...///", "", testSettings())
	assert.Error(t, err, "names with no usable characters are rejected")
}
