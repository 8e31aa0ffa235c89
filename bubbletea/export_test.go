package bubbletea

// BlockSeparator exports blockSeparator for testing.
func BlockSeparator(prev, curr Block) string {
	return blockSeparator(prev, curr)
}

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// BlockFocus returns the index of the focused collapsible block.
func BlockFocus(m Model) int {
	return m.blockFocus
}

// Blocks returns the transcript blocks.
func Blocks(m Model) []Block {
	return m.blocks
}
