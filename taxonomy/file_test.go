package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestFileRepository_LoadMissingBootstrapsSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_keywords.json")
	repo, err := NewFileRepository(path, WithSeed(testSeed()))
	require.NoError(t, err)

	s, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"식품", "화장품/미용"}, s.Majors())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load must not create the file")
}

func TestFileRepository_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "category_keywords.json")
	repo, err := NewFileRepository(path, WithSeed(testSeed()))
	require.NoError(t, err)

	s := populatedStore(t)
	require.NoError(t, repo.Save(s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "화장품/미용"), "hangul is written unescaped")

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, s.Document(), loaded.Document())
}

func TestFileRepository_BackupBeforeSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_keywords.json")
	repo, err := NewFileRepository(path, WithSeed(testSeed()))
	require.NoError(t, err)
	repo.now = steppingClock()

	s := newTestStore(t)
	require.NoError(t, repo.Save(s))
	backups, err := repo.Backups()
	require.NoError(t, err)
	assert.Empty(t, backups, "first save has nothing to back up")

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.AddUserKeyword("식품", "", "홍삼"))
	require.NoError(t, repo.Save(s))

	backups, err = repo.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.True(t, strings.HasSuffix(backups[0], "category_keywords.backup_20240501_090001.json"), backups[0])

	saved, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, first, saved)
}

func TestFileRepository_BackupRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_keywords.json")
	repo, err := NewFileRepository(path, WithSeed(testSeed()), WithBackupRetention(2))
	require.NoError(t, err)
	repo.now = steppingClock()

	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(s))
	}

	backups, err := repo.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.True(t, strings.HasSuffix(backups[1], "backup_20240501_090004.json"), backups[1])
}

func TestFileRepository_BackupsDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_keywords.json")
	repo, err := NewFileRepository(path, WithSeed(testSeed()), WithBackups(false))
	require.NoError(t, err)

	s := newTestStore(t)
	require.NoError(t, repo.Save(s))
	require.NoError(t, repo.Save(s))

	backups, err := repo.Backups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestFileRepository_LoadMergesNewSeedCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_keywords.json")
	legacy := `{"식품": {"auto_keywords": ["홍삼"], "user_keywords": [], "enabled_keywords": ["홍삼"], "subcategories": {}}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	repo, err := NewFileRepository(path, WithSeed(testSeed()))
	require.NoError(t, err)

	s, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"식품", "화장품/미용"}, s.Majors())

	subs, err := s.Subcategories("화장품/미용")
	require.NoError(t, err)
	assert.Equal(t, []string{"메이크업", "스킨케어"}, subs)

	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"홍삼"}, got)
}

func TestFileRepository_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_keywords.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	_, err = repo.Load()
	assert.Error(t, err)
}

func TestNewFileRepository_Options(t *testing.T) {
	_, err := NewFileRepository("")
	assert.Error(t, err)

	_, err = NewFileRepository("x.json", WithBackupRetention(-1))
	assert.Error(t, err)
}
