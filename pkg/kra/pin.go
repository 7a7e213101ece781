package kra

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePIN limpia espacios y pasa a mayúsculas un PIN KRA.
func NormalizePIN(pin string) string {
	return strings.ToUpper(strings.TrimSpace(pin))
}

// ValidatePIN valida el formato del PIN KRA: una letra (A = persona natural,
// P = persona jurídica), nueve dígitos y una letra de control. Ej: "P051234567Q".
func ValidatePIN(pin string) error {
	p := NormalizePIN(pin)
	if len(p) != 11 {
		return fmt.Errorf("kra: el PIN debe tener 11 caracteres, se recibieron %d", len(p))
	}
	if p[0] != 'A' && p[0] != 'P' {
		return fmt.Errorf("kra: el PIN debe iniciar con A o P, se recibió %q", p[0])
	}
	for i := 1; i <= 9; i++ {
		if !unicode.IsDigit(rune(p[i])) {
			return fmt.Errorf("kra: posición %d del PIN debe ser un dígito", i+1)
		}
	}
	if !unicode.IsLetter(rune(p[10])) {
		return fmt.Errorf("kra: el PIN debe terminar en una letra")
	}
	return nil
}
