package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatIDR renders an amount in rupiah with Indonesian digit grouping, e.g. "Rp 43.050".
func FormatIDR(amount int64) string {
	p := message.NewPrinter(language.Indonesian)

	if amount < 0 {
		return p.Sprintf("-Rp %d", -amount)
	}

	return p.Sprintf("Rp %d", amount)
}
