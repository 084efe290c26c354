package slug

import (
	"strings"
)

const maxLen = 100

var acentos = map[rune]rune{
	'á': 'a',
	'é': 'e',
	'í': 'i',
	'ó': 'o',
	'ú': 'u',
	'ü': 'u',
	'ñ': 'n',
}

// Derivar genera un slug apto para URLs a partir de un título. Es una función
// pura y total: la misma entrada produce siempre la misma salida y nunca falla.
// Una entrada vacía o solo de espacios produce "".
func Derivar(titulo string) string {
	lower := strings.ToLower(titulo)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if plano, ok := acentos[r]; ok {
			r = plano
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}

	s := strings.Join(strings.Fields(b.String()), " ")
	s = strings.ReplaceAll(s, " ", "-")

	// Los guiones son un carácter conservado: solo se recorta el guion final
	// que pueda introducir el truncado.
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}

	return s
}
