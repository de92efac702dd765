package markers

import "errors"

var (
	// ErrRunInProgress indicates another marker operation is already running.
	ErrRunInProgress = errors.New("marker operation already in progress")

	// ErrNoDestination indicates no backup destination path is configured.
	ErrNoDestination = errors.New("backup destination not configured")

	// ErrDestinationNotJSON indicates the centralized document path does not end in .json.
	ErrDestinationNotJSON = errors.New("backup file path must end with .json")

	// ErrDestinationNotWritable indicates the destination directory failed the write probe.
	ErrDestinationNotWritable = errors.New("backup destination is not writable")

	// ErrInvalidSource indicates the restore source selection is missing or ambiguous.
	ErrInvalidSource = errors.New("exactly one of document path or scan roots must be set")

	// ErrSourceMissing indicates the source document does not exist.
	ErrSourceMissing = errors.New("source document not found")

	// ErrInvalidDocument indicates the top-level document could not be parsed.
	ErrInvalidDocument = errors.New("invalid document format")

	// ErrEpisodeNotFound indicates no resolution strategy located the episode.
	ErrEpisodeNotFound = errors.New("episode not found")
)
