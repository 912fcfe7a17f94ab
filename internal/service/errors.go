package service

import "errors"

// Failure taxonomy for the turn and report paths. Handlers map these to
// HTTP statuses with errors.Is; everything else surfaces as an opaque 500.
var (
	// ErrDownloadFailed means the caller-supplied audio URL could not be
	// fetched. Caller error.
	ErrDownloadFailed = errors.New("audio download failed")

	// ErrTranscriptionFailed means the transcription collaborator returned
	// no usable text. Fatal for the request, no retry.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrMalformedTrackerOutput means the tracker's structured scoring
	// output did not parse into the expected schema.
	ErrMalformedTrackerOutput = errors.New("malformed tracker output")

	// ErrGenerationFailed means response generation errored or produced
	// empty text. The turn is aborted with nothing persisted.
	ErrGenerationFailed = errors.New("response generation failed")

	// ErrPersistenceFailed means a document-store write failed.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrScoreParse means a report section's leading score was not a
	// digit. Recovered locally with a zero default, never surfaced.
	ErrScoreParse = errors.New("report score parse failed")

	// ErrConversationBusy means another turn for the same conversation is
	// already being processed.
	ErrConversationBusy = errors.New("conversation busy")
)
