package cli

import (
	"github.com/wesleyorama2/webapi/http"
)

var (
	getCmd    = newCallCommand(http.MethodGet)
	postCmd   = newCallCommand(http.MethodPost)
	putCmd    = newCallCommand(http.MethodPut)
	deleteCmd = newCallCommand(http.MethodDelete)
)
