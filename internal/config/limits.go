package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxDrawingNameLength is the maximum length for drawing names.
	// Same as folder names for consistency.
	MaxDrawingNameLength = 255

	// MaxDrawingContentBytes is the maximum size of a canvas payload.
	// Canvases beyond a few megabytes point at embedded bitmaps that
	// belong in object storage, not a JSONB column.
	MaxDrawingContentBytes = 4 << 20

	// MaxTargetNotesLength is the maximum length for target notes.
	MaxTargetNotesLength = 1000
)
