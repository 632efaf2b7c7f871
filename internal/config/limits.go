package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MaxProjectDescriptionLength bounds the free-text description.
	MaxProjectDescriptionLength = 2000

	// MaxBranchNameLength is the maximum length for branch names.
	// Branch names also must match BranchNamePattern.
	MaxBranchNameLength = 100

	// MaxCommitMessageLength bounds caller-supplied commit messages.
	MaxCommitMessageLength = 500

	// DefaultHistoryPageSize is the history page size when none is requested.
	DefaultHistoryPageSize = 50

	// MaxHistoryPageSize clamps requested page sizes to prevent
	// unbounded scans.
	MaxHistoryPageSize = 200
)

// BranchNamePattern restricts branch names to a filesystem- and URL-safe
// alphabet.
const BranchNamePattern = `^[A-Za-z0-9_-]+$`
