package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/naveenspark/storefront/internal/form"
)

// fieldLabelWidth is the column the input values start at.
const fieldLabelWidth = 18

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// renderField draws one labelled input with its validation message.
// Masked fields show a bullet per rune.
func renderField(b *strings.Builder, label string, fld *form.Field, focused, masked bool, frame int) {
	cursor := "  "
	labelStyle := metaStyle
	if focused {
		cursor = accentStyle.Render("> ")
		labelStyle = selectedStyle
	}

	value := fld.Value
	if masked {
		value = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	if focused && (frame/4)%2 == 0 {
		value += accentStyle.Render("█")
	}

	b.WriteString(cursor + labelStyle.Render(padRight(label, fieldLabelWidth)) + normalStyle.Render(value) + "\n")
	if msg := fld.Message(); msg != "" {
		b.WriteString(strings.Repeat(" ", fieldLabelWidth+2) + fieldErrorStyle.Render(msg) + "\n")
	}
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
