package webapi

import (
	"errors"
	"fmt"

	"github.com/wesleyorama2/webapi/proxy"
)

// ErrNoProxy is reported when the directory returns no candidates.
var ErrNoProxy = errors.New("proxy directory returned no candidates")

// ProxySelectionError reports that automatic proxy selection failed while
// constructing an Executor.
type ProxySelectionError struct {
	DirectoryURL string

	// Record is the selected candidate when it could not be used.
	Record *proxy.Record

	Err error
}

func (e *ProxySelectionError) Error() string {
	return fmt.Sprintf("select proxy from %s: %v", e.DirectoryURL, e.Err)
}

func (e *ProxySelectionError) Unwrap() error { return e.Err }
