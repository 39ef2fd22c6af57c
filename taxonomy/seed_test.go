package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	require.NotEmpty(t, seed)

	names := map[string]bool{}
	for _, cat := range seed {
		assert.NotEmpty(t, cat.Name)
		assert.False(t, names[cat.Name], "duplicate major %q", cat.Name)
		names[cat.Name] = true

		subs := map[string]bool{}
		for _, sub := range cat.Subcategories {
			assert.False(t, subs[sub.Name], "duplicate sub %q under %q", sub.Name, cat.Name)
			subs[sub.Name] = true
		}
	}
	assert.True(t, names["화장품/미용"])

	s := NewStore(seed)
	subs, err := s.Subcategories("화장품/미용")
	require.NoError(t, err)
	assert.Contains(t, subs, "스킨케어")
}

func TestLoadSeedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `categories:
  - name: 화장품/미용
    id: "50000002"
    subcategories:
      - name: 스킨케어
      - name: 향수
  - name: 식품
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	seed, err := LoadSeedYAML(path)
	require.NoError(t, err)
	require.Len(t, seed, 2)
	assert.Equal(t, "화장품/미용", seed[0].Name)
	assert.Equal(t, "50000002", seed[0].ID)
	assert.Equal(t, []SeedSubcategory{{Name: "스킨케어"}, {Name: "향수"}}, seed[0].Subcategories)
	assert.Empty(t, seed[1].Subcategories)
}

func TestLoadSeedYAML_Missing(t *testing.T) {
	seed, err := LoadSeedYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, seed)
}

func TestLoadSeedYAML_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("categories: [\n"), 0644))
	_, err := LoadSeedYAML(bad)
	assert.Error(t, err)

	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("categories:\n  - id: \"1\"\n"), 0644))
	_, err = LoadSeedYAML(unnamed)
	assert.Error(t, err)
}
