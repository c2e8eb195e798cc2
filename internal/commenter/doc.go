package commenter

// Package commenter implements the client side of comment generation: it
// waits for the local server to report ready, then sends one request per
// code block in order and reports each result through callbacks. The first
// failing block aborts the rest of the job.
