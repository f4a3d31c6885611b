package errors

type autohttpError string

func (s autohttpError) Error() string {
	return string(s)
}

const (
	// ErrNotFound is an error that is returned when an entity was not found
	ErrNotFound autohttpError = "entity not found"
	// ErrAppNotFound is returned when an application reference cannot be resolved
	ErrAppNotFound autohttpError = "application not found"
	// ErrInvalidReference is returned when an application reference is malformed
	ErrInvalidReference autohttpError = "invalid application reference"
	// ErrUnknownDirective is returned when a document uses a directive that was never registered
	ErrUnknownDirective autohttpError = "unknown directive"
)
