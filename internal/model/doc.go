package model

// Package model defines domain data structures used across the app: code
// blocks, comment results, generation jobs and status enums. Structures are
// plain values so they can be handed to the UI and the worker without locks.
