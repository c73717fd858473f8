package mock

import "github.com/fwojciec/dq"

var _ dq.Converter = (*Converter)(nil)

// Converter is a mock implementation of dq.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
