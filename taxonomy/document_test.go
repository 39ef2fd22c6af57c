package taxonomy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "", []string{"화장품", "크림"}))
	require.NoError(t, s.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"토너", "앰플"}))
	require.NoError(t, s.AddUserKeyword("화장품/미용", "스킨케어", "ABC"))
	require.NoError(t, s.SetEnabled("화장품/미용", "스킨케어", "앰플", false))
	require.NoError(t, s.AddUserKeyword("식품", "", "홍삼"))
	require.NoError(t, s.SetEnabled("식품", "", "홍삼", false))
	return s
}

func TestDocument_RoundTrip(t *testing.T) {
	s := populatedStore(t)

	data, err := json.Marshal(s.Document())
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, CurrentVersion, doc.Version)

	loaded, err := FromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, s.Document(), loaded.Document())
	assert.Equal(t, s.Stats(), loaded.Stats())

	// Flags survive the trip: a replace still remembers the disable.
	require.NoError(t, loaded.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"앰플"}))
	got, err := loaded.EnabledKeywords("화장품/미용", "스킨케어")
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC"}, got)
}

func TestDocument_LegacyShape(t *testing.T) {
	data, err := json.Marshal(populatedStore(t).Document())
	require.NoError(t, err)

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	require.Contains(t, raw, "화장품/미용")
	major := raw["화장품/미용"]
	for _, field := range []string{"auto_keywords", "user_keywords", "enabled_keywords", "subcategories"} {
		assert.Contains(t, major, field)
	}

	var subs map[string]map[string][]string
	require.NoError(t, json.Unmarshal(major["subcategories"], &subs))
	assert.Equal(t, []string{"앰플", "토너"}, subs["스킨케어"]["auto_keywords"])
	assert.Equal(t, []string{"ABC"}, subs["스킨케어"]["user_keywords"])
	assert.Equal(t, []string{"ABC", "토너"}, subs["스킨케어"]["enabled_keywords"])
	assert.Equal(t, []string{}, subs["메이크업"]["auto_keywords"])
}

func TestDocument_ReadsHandWrittenLegacyFile(t *testing.T) {
	input := `{
	  "식품": {
	    "auto_keywords": ["홍삼", "단백질"],
	    "user_keywords": ["프로틴"],
	    "enabled_keywords": ["단백질", "프로틴", "유령"],
	    "subcategories": {
	      "건강식품": {"auto_keywords": ["비타민"], "user_keywords": [], "enabled_keywords": ["비타민"]}
	    }
	  }
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	s, err := FromDocument(&doc)
	require.NoError(t, err)

	sets, err := s.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"단백질", "비타민", "홍삼"}, sets.Auto)
	assert.Equal(t, []string{"프로틴"}, sets.User)
	// 유령 is neither auto nor user and is dropped; 홍삼 was disabled.
	assert.Equal(t, []string{"단백질", "비타민", "프로틴"}, sets.Enabled)
}

func TestDocument_Envelope(t *testing.T) {
	doc := &Document{
		Version: 2,
		Categories: map[string]*MajorRecord{
			"식품": {NodeRecord: NodeRecord{AutoKeywords: []string{"홍삼"}}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Contains(t, env, "version")
	assert.Contains(t, env, "categories")

	var back Document
	err = json.Unmarshal(data, &back)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	current := `{"version": 1, "categories": {"식품": {"auto_keywords": ["홍삼"], "user_keywords": [], "enabled_keywords": ["홍삼"], "subcategories": {}}}}`
	require.NoError(t, json.Unmarshal([]byte(current), &back))
	assert.Equal(t, 1, back.Version)
	require.Contains(t, back.Categories, "식품")
	assert.Equal(t, []string{"홍삼"}, back.Categories["식품"].EnabledKeywords)
}

func TestFromDocument_RejectsEmptyNames(t *testing.T) {
	_, err := FromDocument(&Document{Categories: map[string]*MajorRecord{" ": {}}})
	assert.Error(t, err)

	_, err = FromDocument(&Document{Categories: map[string]*MajorRecord{
		"식품": {Subcategories: map[string]*NodeRecord{"": {}}},
	}})
	assert.Error(t, err)
}

func TestFromDocument_Nil(t *testing.T) {
	s, err := FromDocument(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Majors())
}
