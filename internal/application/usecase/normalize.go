package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cleanName recorta y colapsa espacios internos.
func cleanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nameKey clave de comparación de nombres: sin tildes y sin distinguir mayúsculas.
// "Bebidas Frías" y "bebidas frias" tienen la misma clave.
func nameKey(s string) string {
	// transformers y casers guardan estado: uno nuevo por llamada
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(strip, cleanName(s))
	if err != nil {
		out = cleanName(s)
	}
	return cases.Fold().String(out)
}
