package profile

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProfilesAreValid(t *testing.T) {
	ids := map[int]bool{}
	for _, p := range Seed() {
		require.NoError(t, p.Validate())
		assert.False(t, ids[p.ID], "duplicate id %d", p.ID)
		ids[p.ID] = true
	}
}

func TestCatalogPrependsDiagnosticProfile(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base := Seed()

	catalog := Catalog(base, rng)

	require.Len(t, catalog, len(base)+1)
	assert.Equal(t, DiagnosticProfileID, catalog[0].ID)
	for _, p := range catalog[1:] {
		assert.GreaterOrEqual(t, len(p.Images), 2)
		assert.LessOrEqual(t, len(p.Images), 4)
		for _, img := range p.Images {
			assert.Contains(t, UploadedImages, img)
		}
		assert.Equal(t, p.Images[0], p.Image())
	}
	for _, p := range base {
		assert.Empty(t, p.Images, "Enhance must not mutate its input")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `profiles:
  - id: 10
    name: Orange Crush
    age: 3
    bio: Compact and cheerful.
    make: Kubota
    model: M7
    images: [/img/orange.png]
    responseMessages: ["Hi!"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	profiles, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Orange Crush", profiles[0].Name)
	assert.Equal(t, []string{"/img/orange.png"}, profiles[0].Images)
}

func TestLoadCatalogRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"empty":     "profiles: []\n",
		"no reply":  "profiles:\n  - id: 1\n    name: Mute\n",
		"duplicate": "profiles:\n  - {id: 1, name: A, responseMessages: [x]}\n  - {id: 1, name: B, responseMessages: [y]}\n",
		"not yaml":  "profiles: [\n",
		"reserved":  "profiles:\n  - {id: 999, name: Impostor, responseMessages: [x]}\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := LoadCatalog(path)
			assert.Error(t, err)
		})
	}
}

func TestCatalogKeepsIDsUnique(t *testing.T) {
	base := append(Seed(), Profile{ID: DiagnosticProfileID, Name: "Impostor", ResponseMessages: []string{"x"}})

	catalog := Catalog(base, rand.New(rand.NewPCG(3, 4)))

	require.Len(t, catalog, len(Seed())+1)
	seen := map[int]int{}
	for _, p := range catalog {
		seen[p.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %d", id)
	}
	assert.Equal(t, DiagnosticProfile().Name, catalog[0].Name)
}

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.FindByID(3)
	require.True(t, ok)
	assert.Equal(t, "Kubo", got.Name)

	_, ok = store.FindByID(12345)
	assert.False(t, ok)
}
