package taxonomy

import (
	"errors"
	"testing"

	"github.com/poiesic/trendscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func testSeed() Seed {
	return Seed{
		{Name: "화장품/미용", Subcategories: []SeedSubcategory{{Name: "스킨케어"}, {Name: "메이크업"}}},
		{Name: "식품"},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testSeed())
}

func TestNewStore_BootstrapsSeed(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []string{"식품", "화장품/미용"}, s.Majors())

	subs, err := s.Subcategories("화장품/미용")
	require.NoError(t, err)
	assert.Equal(t, []string{"메이크업", "스킨케어"}, subs)

	subs, err = s.Subcategories("식품")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestStore_UnknownPath(t *testing.T) {
	s := newTestStore(t)

	_, err := s.EnabledKeywords("가구", "")
	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "가구", nf.Major)

	err = s.AddUserKeyword("화장품/미용", "향수", "샤넬")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "향수", nf.Sub)

	_, err = s.AllKeywords("화장품/미용", "향수")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateAutoKeywords("가구", "", []string{"소파"}), core.ErrNotFound)
	assert.ErrorIs(t, s.EnableAll("가구", ""), core.ErrNotFound)
}

func TestStore_EmptySelectionIsValid(t *testing.T) {
	s := newTestStore(t)

	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	sets, err := s.AllKeywords("화장품/미용", "스킨케어")
	require.NoError(t, err)
	assert.Empty(t, sets.Auto)
	assert.Empty(t, sets.User)
	assert.Empty(t, sets.Enabled)
}

func TestStore_EnabledKeywordsUnionOverMajor(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "", []string{"화장품", "크림"}))
	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"크림", "토너"}))
	require.NoError(t, s.AddUserKeyword("화장품/미용", "메이크업", "쿠션"))
	require.NoError(t, s.SetEnabled("화장품/미용", "스킨케어", "토너", false))

	got, err := s.EnabledKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"쿠션", "크림", "화장품"}, got)

	// The flattened view equals the union of the major and every sub.
	want := map[string]struct{}{}
	own, err := s.EnabledKeywords("화장품/미용", "")
	require.NoError(t, err)
	subs, err := s.Subcategories("화장품/미용")
	require.NoError(t, err)
	for _, sub := range subs {
		part, err := s.EnabledKeywords("화장품/미용", sub)
		require.NoError(t, err)
		for _, k := range part {
			want[k] = struct{}{}
		}
	}
	for _, k := range []string{"화장품", "크림"} {
		want[k] = struct{}{}
	}
	assert.Equal(t, sortedKeys(want), own)

	sub, err := s.EnabledKeywords("화장품/미용", "스킨케어")
	require.NoError(t, err)
	assert.Equal(t, []string{"크림"}, sub)
}

func TestStore_AllKeywordsPerField(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "", []string{"화장품"}))
	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"토너"}))
	require.NoError(t, s.AddUserKeyword("화장품/미용", "스킨케어", "앰플"))
	require.NoError(t, s.SetEnabled("화장품/미용", "", "화장품", false))

	sets, err := s.AllKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"토너", "화장품"}, sets.Auto)
	assert.Equal(t, []string{"앰플"}, sets.User)
	assert.Equal(t, []string{"앰플", "토너"}, sets.Enabled)
}

func TestStore_AddUserKeyword(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddUserKeyword("식품", "", "  프로틴  "))
	sets, err := s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"프로틴"}, sets.User)
	assert.Equal(t, []string{"프로틴"}, sets.Enabled)

	// No propagation to siblings, children or parents.
	require.NoError(t, s.AddUserKeyword("화장품/미용", "스킨케어", "앰플"))
	major, err := s.AllKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"앰플"}, major.User)
	own := s.Document().Categories["화장품/미용"]
	assert.Empty(t, own.UserKeywords)
	assert.Empty(t, own.Subcategories["메이크업"].UserKeywords)
}

func TestStore_AddUserKeywordIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddUserKeyword("식품", "", "프로틴"))
	once := s.Document()

	require.NoError(t, s.AddUserKeyword("식품", "", "프로틴"))
	assert.Equal(t, once, s.Document())
}

func TestStore_AddUserKeywordRejectsEmpty(t *testing.T) {
	s := newTestStore(t)

	err := s.AddUserKeyword("식품", "", "   ")
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "keyword", verr.Field)
}

func TestStore_AddUserKeywordEnablesDisabledAutoKeyword(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼"}))
	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))
	require.NoError(t, s.AddUserKeyword("식품", "", "홍삼"))

	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"홍삼"}, got)
}

func TestStore_RemoveUserKeyword(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼"}))
	require.NoError(t, s.AddUserKeyword("식품", "", "홍삼"))
	require.NoError(t, s.AddUserKeyword("식품", "", "프로틴"))
	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))

	require.NoError(t, s.RemoveUserKeyword("식품", "", "프로틴"))
	require.NoError(t, s.RemoveUserKeyword("식품", "", "홍삼"))
	// Removing again is a no-op.
	require.NoError(t, s.RemoveUserKeyword("식품", "", "프로틴"))

	sets, err := s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Empty(t, sets.User)
	assert.Equal(t, []string{"홍삼"}, sets.Auto)
	// 홍삼 is still an auto keyword and keeps its disable.
	assert.Empty(t, sets.Enabled)
}

func TestStore_SetEnabled(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼", "단백질"}))

	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))
	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))
	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"단백질"}, got)

	require.NoError(t, s.SetEnabled("식품", "", "홍삼", true))
	got, err = s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"단백질", "홍삼"}, got)

	err = s.SetEnabled("식품", "", "비타민", true)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestStore_EnableDisableAll(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "", []string{"화장품"}))
	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"토너"}))
	require.NoError(t, s.AddUserKeyword("화장품/미용", "메이크업", "쿠션"))

	require.NoError(t, s.DisableAll("화장품/미용", "스킨케어"))
	got, err := s.EnabledKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"쿠션", "화장품"}, got)

	require.NoError(t, s.DisableAll("화장품/미용", ""))
	got, err = s.EnabledKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.EnableAll("화장품/미용", "메이크업"))
	got, err = s.EnabledKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"쿠션"}, got)

	require.NoError(t, s.EnableAll("화장품/미용", ""))
	got, err = s.EnabledKeywords("화장품/미용", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"쿠션", "토너", "화장품"}, got)
}

func TestStore_UpdateAutoKeywordsReplaces(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼", "단백질", "프로틴"}))
	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"비타민", "비타민", " 유산균 "}))

	sets, err := s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"비타민", "유산균"}, sets.Auto)
	assert.Equal(t, []string{"비타민", "유산균"}, sets.Enabled)

	require.NoError(t, s.UpdateAutoKeywords("식품", "", nil))
	sets, err = s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Empty(t, sets.Auto)
}

func TestStore_UpdateAutoKeywordsNormalizesInput(t *testing.T) {
	s := newTestStore(t)

	decomposed := norm.NFD.String("홍삼")
	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{" 홍삼", decomposed, "홍삼\t", "", "   ", "Protein "}))

	sets, err := s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Protein", "홍삼"}, sets.Auto)
	assert.Equal(t, []string{"Protein", "홍삼"}, sets.Enabled)

	// A disable recorded on the normalized form survives untrimmed input.
	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))
	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"  홍삼  ", "Protein"}))
	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Protein"}, got)
}

func TestStore_UpdateAutoKeywordsKeepsDisablesForSurvivors(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼", "단백질", "프로틴"}))
	require.NoError(t, s.AddUserKeyword("식품", "", "비타민"))
	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))
	require.NoError(t, s.SetEnabled("식품", "", "단백질", false))
	require.NoError(t, s.SetEnabled("식품", "", "비타민", false))

	// 홍삼 survives, 단백질 leaves, 유산균 is new.
	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼", "프로틴", "유산균"}))
	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"유산균", "프로틴"}, got)

	// 단백질 returns without its old disable.
	require.NoError(t, s.UpdateAutoKeywords("식품", "", []string{"홍삼", "단백질"}))
	got, err = s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"단백질"}, got)

	sets, err := s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"비타민"}, sets.User, "user keywords are untouched by a replace")
}

func TestStore_AddSubcategory(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddSubcategory("식품", "건강식품"))
	require.NoError(t, s.AddSubcategory("식품", "건강식품"))
	subs, err := s.Subcategories("식품")
	require.NoError(t, err)
	assert.Equal(t, []string{"건강식품"}, subs)

	assert.ErrorIs(t, s.AddSubcategory("가구", "소파"), core.ErrNotFound)
	assert.ErrorIs(t, s.AddSubcategory("식품", " "), core.ErrValidation)
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "", []string{"화장품", "크림"}))
	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"토너"}))
	require.NoError(t, s.AddUserKeyword("식품", "", "홍삼"))
	require.NoError(t, s.SetEnabled("화장품/미용", "", "크림", false))

	assert.Equal(t, Stats{Majors: 2, Subcategories: 2, Auto: 3, User: 1, Enabled: 3}, s.Stats())
}

func TestStore_ResetAndMergeSeed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddUserKeyword("식품", "", "홍삼"))

	added := s.MergeSeed(Seed{
		{Name: "식품", Subcategories: []SeedSubcategory{{Name: "가공식품"}}},
		{Name: "가구/인테리어"},
	})
	assert.Equal(t, 2, added)
	got, err := s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"홍삼"}, got, "merging a seed keeps existing nodes")

	s.Reset(Seed{{Name: "식품"}})
	assert.Equal(t, []string{"식품"}, s.Majors())
	got, err = s.EnabledKeywords("식품", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ValidationErrorsAreDistinct(t *testing.T) {
	s := newTestStore(t)

	err := s.AddUserKeyword("가구", "", "")
	assert.True(t, errors.Is(err, core.ErrValidation), "input is validated before the path lookup")
}
