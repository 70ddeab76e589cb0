package http

import "net/http"

// Method is an HTTP verb understood by the client.
// The zero value is GET.
type Method struct {
	verb string
}

var (
	MethodGet    = Method{verb: http.MethodGet}
	MethodPost   = Method{verb: http.MethodPost}
	MethodPut    = Method{verb: http.MethodPut}
	MethodDelete = Method{verb: http.MethodDelete}
)

// ParseMethod returns the Method named by s (case sensitive, upper case).
func ParseMethod(s string) (Method, bool) {
	switch s {
	case http.MethodGet, "":
		return MethodGet, true
	case http.MethodPost:
		return MethodPost, true
	case http.MethodPut:
		return MethodPut, true
	case http.MethodDelete:
		return MethodDelete, true
	}
	return Method{}, false
}

// String returns the wire name of the method.
func (m Method) String() string {
	if m.verb == "" {
		return http.MethodGet
	}
	return m.verb
}

// HasBody reports whether requests with this method carry a JSON body.
// DELETE carries one, same as POST and PUT.
func (m Method) HasBody() bool {
	return m.String() != http.MethodGet
}
