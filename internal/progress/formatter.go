package progress

// truncateLabel shortens a label to fit width columns, leaving room for the
// spinner glyph. Width 0 means unknown and disables truncation.
func truncateLabel(label string, width int) string {
	const reserved = 4
	if width <= reserved {
		return label
	}
	runes := []rune(label)
	if len(runes) <= width-reserved {
		return label
	}
	return string(runes[:width-reserved-1]) + "…"
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
