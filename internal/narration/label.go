package narration

// DefaultLabelWidth is how many characters of narration fit the focus label
const DefaultLabelWidth = 80

// Label returns the narration truncated to DefaultLabelWidth runes.
func (m Moment) Label() string {
	return Truncate(m.Narration, DefaultLabelWidth)
}

// Truncate cuts s to at most width runes. A width <= 0 disables truncation.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}
