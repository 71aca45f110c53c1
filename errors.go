package pinprovider

import "errors"

var (
	// ErrInvalidAddress signals that a storage node address cannot be decomposed into a
	// connectable base plus an optional peer identity suffix.
	ErrInvalidAddress = errors.New("invalid storage node address")

	// ErrFileNotFound is returned when the local path given for upload does not resolve
	// to an existing file.
	ErrFileNotFound = errors.New("file not found")

	// ErrUploadFailed signals that adding or pinning content on the storage node failed.
	// No CID is produced in that case.
	ErrUploadFailed = errors.New("upload failed")

	// ErrConfirmationFailed signals that the pin listing after a successful upload did not
	// confirm a recursive pin.  It is only ever reported as a warning.
	ErrConfirmationFailed = errors.New("pin confirmation failed")

	// ErrUnknownExistence is returned when the pin state of a CID could not be determined
	// for a reason other than the node reporting it as not pinned.
	ErrUnknownExistence = errors.New("pin state unknown")

	// ErrRemovalFailed signals that the block removal call itself failed.
	ErrRemovalFailed = errors.New("removal failed")
)
