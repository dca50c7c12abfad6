// Package util — мелкие помощники без зависимостей от домена.
package util

import (
	"strings"
	"unicode"
)

// HolderHintFromName сворачивает имя участника в инициалы для логов:
// "Jane Mary Doe" → "J.D.", "jdoe" → "J.". Берутся первое и последнее слово.
func HolderHintFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.'
	})
	initials := make([]rune, 0, 2)
	for _, w := range words {
		if r, ok := firstLetter(w); ok {
			initials = append(initials, unicode.ToUpper(r))
		}
	}
	switch len(initials) {
	case 0:
		return ""
	case 1:
		return string(initials[0]) + "."
	}
	return string(initials[0]) + "." + string(initials[len(initials)-1]) + "."
}

func firstLetter(w string) (rune, bool) {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}
