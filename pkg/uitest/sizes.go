package uitest

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// Predefined terminal sizes for consistent testing.
var (
	// Compact is the classic 80x24 terminal.
	Compact = Size{Width: 80, Height: 24}
	// Standard is a typical modern terminal.
	Standard = Size{Width: 120, Height: 40}
)
