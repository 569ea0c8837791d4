// Package localization resolves user-facing messages by language. Messages
// live in JSON files named after their language code (en.json, fil.json).
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// DefaultLanguage is used when a key is missing from the requested language.
const DefaultLanguage = "en"

// Message keys shared by the report flow and the terminal front-end.
const (
	KeyMissingFields      = "report.missing_fields"
	KeyPermissionDenied   = "report.permission_denied"
	KeyEvidenceFailed     = "report.evidence_failed"
	KeyLocationFailed     = "report.location_failed"
	KeySubmitFailed       = "report.submit_failed"
	KeySubmitted          = "report.submitted"
	KeyCancelled          = "report.cancelled"
	KeyNoLaws             = "report.no_laws"
	KeyAckGoodFaith       = "ack.good_faith"
	KeyAckConfidentiality = "ack.confidentiality"
	KeyAckFalseReport     = "ack.false_report"
	KeyConfirmPrompt      = "report.confirm_prompt"
)

//go:embed locales/*.json
var bundled embed.FS

// Localizer holds the translations of every loaded language.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// Default loads the bundled translations.
func Default() *Localizer {
	l, err := NewLocalizer(bundled, "locales")
	if err != nil {
		panic(err)
	}
	return l
}

// NewLocalizer loads every *.json file in dir of fsys.
func NewLocalizer(fsys fs.FS, dir string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	return l, nil
}

// GetString returns the message for key in lang, falling back to English and
// then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != DefaultLanguage {
		if enTranslations, ok := l.translations[DefaultLanguage]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Format is GetString followed by fmt.Sprintf.
func (l *Localizer) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Languages lists the loaded language codes.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		out = append(out, lang)
	}
	return out
}
