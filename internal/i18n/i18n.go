package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/RakanBA/AYAN/internal/model"
)

type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// Translate returns the message for key in lang. Missing translations fall
// back to English, then to the key itself.
func Translate(lang model.Language, key string) string {
	if table, ok := messages[lang]; ok {
		if msg, ok := table[key]; ok && msg != "" {
			return msg
		}
	}
	if msg, ok := messages[model.LanguageEN][key]; ok {
		return msg
	}
	return key
}

// Translator binds Translate to a language.
func Translator(lang model.Language) func(key string) string {
	return func(key string) string {
		return Translate(lang, key)
	}
}

// Messages returns a copy of the full table for lang with English filling
// any gaps.
func Messages(lang model.Language) map[string]string {
	out := make(map[string]string, len(messages[model.LanguageEN]))
	for key := range messages[model.LanguageEN] {
		out[key] = Translate(lang, key)
	}
	return out
}

// ParseLanguage maps a BCP-47 tag such as "ar-SA" or "EN" onto a supported
// language.
func ParseLanguage(raw string) (model.Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return model.Languages[idx], true
}

func DirectionOf(lang model.Language) Direction {
	if lang == model.LanguageAR {
		return RTL
	}
	return LTR
}
