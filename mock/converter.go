package mock

import "github.com/fwojciec/urlvault"

var _ urlvault.Converter = (*Converter)(nil)

// Converter is a mock implementation of urlvault.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
