package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It wires the code editor and buttons to the extractor and the comment service,
// and renders generated comments, status, and settings. All UI strings are
// localized via Localization.
