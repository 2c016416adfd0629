package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an integer rupiah amount with Indonesian digit
// grouping, e.g. 150000 -> "Rp150.000".
func FormatRupiah(n int64) string {
	return rupiah.Sprintf("Rp%d", n)
}
