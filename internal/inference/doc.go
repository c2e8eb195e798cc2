// Package inference talks to the sequence model that writes the comments.
// The model is served by an Ollama-compatible backend; this package only
// wraps its /api/show and /api/generate endpoints.
package inference
