package domain

import "errors"

var (
	// ErrInvalidArgument signals a request parameter that failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexNotReady signals a query before the first scan completed.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrRebuildInProgress signals a re-index triggered while one is running.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
	// ErrNoSuchDirectory signals a missing or unreadable recipe directory.
	ErrNoSuchDirectory = errors.New("recipe directory does not exist")
	// ErrExtractFailed signals a PDF that could not be parsed.
	ErrExtractFailed = errors.New("extraction failed")
	// ErrUnsupportedMode signals an unknown search mode.
	ErrUnsupportedMode = errors.New("unsupported search mode")
)
