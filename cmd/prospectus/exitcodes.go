package main

// Exit codes for scripting against the CLI.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error / index not found
	ExitDataError     = 3 // Data error (malformed input, validation failure) / provider not available
	ExitNoMatch       = 4 // No course cleared the relevance threshold
	ExitModelNotFound = 5 // Embedding model not found
	ExitIndexStale    = 6 // Vector index is stale relative to the catalogue
	ExitAccessDenied  = 7 // Access phrase did not match
)
