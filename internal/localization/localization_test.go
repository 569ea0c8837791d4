package localization_test

import (
	"testing"
	"testing/fstest"

	"childguard/backend/internal/localization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizer_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"i18n/en.json":  {Data: []byte(`{"greeting":"Hello","only_en":"English only"}`)},
		"i18n/fil.json": {Data: []byte(`{"greeting":"Kumusta"}`)},
		"i18n/notes.md": {Data: []byte(`ignored`)},
	}
	l, err := localization.NewLocalizer(fsys, "i18n")
	require.NoError(t, err)

	tests := []struct {
		lang, key, want string
	}{
		{"fil", "greeting", "Kumusta"},
		{"en", "greeting", "Hello"},
		{"fil", "only_en", "English only"},
		{"de", "greeting", "Hello"},
		{"en", "missing", "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, l.GetString(tt.lang, tt.key))
		})
	}
	assert.ElementsMatch(t, []string{"en", "fil"}, l.Languages())
}

func TestLocalizer_BadFile(t *testing.T) {
	fsys := fstest.MapFS{"i18n/en.json": {Data: []byte(`{not json`)}}

	_, err := localization.NewLocalizer(fsys, "i18n")

	assert.Error(t, err)
}

func TestDefault_BundledLanguagesShareKeys(t *testing.T) {
	l := localization.Default()

	keys := []string{
		localization.KeyMissingFields, localization.KeyPermissionDenied, localization.KeyEvidenceFailed, localization.KeyLocationFailed,
		localization.KeySubmitFailed, localization.KeySubmitted, localization.KeyCancelled,
		localization.KeyNoLaws, localization.KeyAckGoodFaith, localization.KeyAckConfidentiality,
		localization.KeyAckFalseReport, localization.KeyConfirmPrompt,
	}
	for _, key := range keys {
		assert.NotEqual(t, key, l.GetString("en", key), "en missing %s", key)
		assert.NotEqual(t, l.GetString("en", key), l.GetString("fil", key), "fil not translated: %s", key)
	}
	assert.Equal(t, "Please fill in all required fields: victimName", l.Format("en", localization.KeyMissingFields, "victimName"))
}
