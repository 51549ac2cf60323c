package ui

// Status symbols for doctor and spinner output.
const (
	SymbolPass    = "●"
	SymbolFail    = "✗"
	SymbolPending = "○"
	SymbolSkipped = "⊘"
	SymbolSelf    = "◆"
)
