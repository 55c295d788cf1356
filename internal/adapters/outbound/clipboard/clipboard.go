package clipboard

import (
	"github.com/atotto/clipboard"
	"github.com/m-mizutani/goerr/v2"
)

// System implements domain.Clipboard with the host clipboard.
type System struct{}

func New() *System { return &System{} }

// Available reports whether a clipboard utility was found on this host.
func (c *System) Available() bool {
	return !clipboard.Unsupported
}

func (c *System) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return goerr.Wrap(err, "failed to write clipboard", goerr.V("bytes", len(text)))
	}
	return nil
}
