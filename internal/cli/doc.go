package cli

// Package cli holds the cobra commands: the desktop launcher (default),
// the standalone server, the headless commenter, and version.
