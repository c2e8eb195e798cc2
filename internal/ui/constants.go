package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
)

// Layout sizing
const (
	WindowWidth  float32 = 1000
	WindowHeight float32 = 700

	// EditorSplitOffset is the share of the window given to the code editor
	EditorSplitOffset = 0.55
)

// Text fragments
const (
	ProgressFormat   = "%s (%s)"
	StatusPathFormat = "%s: %s"
)
