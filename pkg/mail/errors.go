package mail

import "errors"

var (
	// ErrMissingFields is returned when a send request lacks one of the
	// required to/subject/body fields.
	ErrMissingFields = errors.New("missing required fields: to, subject and body are required")

	// ErrInvalidAddress is returned when the recipient address does not
	// have a local@domain.tld shape.
	ErrInvalidAddress = errors.New("invalid recipient address")

	// ErrMissingSecret is returned when the mailbox password is absent
	// from the environment.
	ErrMissingSecret = errors.New("mail password not configured (MAIL_PASSWORD)")

	// ErrServiceUnavailable is returned when no transport could be
	// obtained, even after a lazy reinitialization attempt.
	ErrServiceUnavailable = errors.New("mail transport unavailable")
)
