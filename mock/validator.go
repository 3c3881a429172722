package mock

import "github.com/fwojciec/urlvault"

var _ urlvault.NoteValidator = (*NoteValidator)(nil)

// NoteValidator is a mock implementation of urlvault.NoteValidator.
type NoteValidator struct {
	ValidateFn func(text string) (string, error)
}

func (v *NoteValidator) Validate(text string) (string, error) {
	return v.ValidateFn(text)
}
