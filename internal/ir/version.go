package ir

// Version constants for the IR schema and the core.
const (
	// IRVersion is the IR schema version recorded with journalled changes.
	IRVersion = "1"

	// CoreVersion is the entrada core version.
	CoreVersion = "0.1.0"
)
