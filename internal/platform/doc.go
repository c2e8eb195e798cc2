package platform

// Package platform contains OS/platform integration: reading source files,
// saving comment output, and revealing files in the system file manager.
