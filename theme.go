package rag

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Question int // Question prompt accent
	Source   int // Context source names
	Score    int // Relevance scores
	Error    int // Error messages
	Success  int // Success indicators
	Muted    int // Status bar, placeholders, snippets
	CodeBg   int // Code block background
	Accent   int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Question: 4,
		Source:   3,
		Score:    6,
		Error:    1,
		Success:  2,
		Muted:    8,
		CodeBg:   0,
		Accent:   5,
	}
}
