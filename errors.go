package svar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreshold is returned when the threshold m does not satisfy
	// 0 < m < n for n questions.
	ErrInvalidThreshold = errors.New("svar: threshold must be greater than 0 and less than the question count")

	// ErrInvalidAnswerFormat is returned when an answer cannot be normalized:
	// an empty freeform answer, a structured index out of range, or an
	// answer whose kind does not match its question.
	ErrInvalidAnswerFormat = errors.New("svar: invalid answer format")

	ErrInvalidQuestion   = errors.New("svar: invalid question")
	ErrUnrelatedQuestion = errors.New("svar: answer to a question that is not part of the sealed secret")
	ErrDuplicateAnswer   = errors.New("svar: more than one answer to the same question")
	ErrEmptySecret       = errors.New("svar: secret must not be empty")
	ErrTooManyPackages   = errors.New("svar: too many question combinations")
	ErrUnknownScheme     = errors.New("svar: unknown encryption scheme")

	// ErrEncryptionFailure is returned when the underlying AEAD primitive or
	// the random source fails while sealing.
	ErrEncryptionFailure = errors.New("svar: encryption failed")

	// ErrSerialization is returned for a malformed sealed container.
	ErrSerialization = errors.New("svar: malformed sealed secret")

	// ErrDecryptionFailed is the only failure reported once every
	// combination has been tried. It never says which answers were wrong.
	ErrDecryptionFailed = errors.New("svar: failed to decrypt sealed secret")
)

// AnswerError reports the question whose answer could not be normalized.
// It unwraps to the normalization error, which wraps ErrInvalidAnswerFormat.
type AnswerError struct {
	Index int    // position of the question in the input
	ID    uint16 // question id
	Err   error
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("answer to question %d (id %d): %v", e.Index, e.ID, e.Err)
}

func (e *AnswerError) Unwrap() error {
	return e.Err
}
