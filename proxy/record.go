// Package proxy describes proxy candidates returned by a proxy directory, the
// rule used to rank them and the explicit proxy settings a caller can supply
// instead of a directory lookup.
package proxy

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnusableRecord is reported when a record lacks an address, port or protocol.
var ErrUnusableRecord = errors.New("proxy record is not usable")

// Record is one proxy candidate. Lower Speed is faster.
type Record struct {
	Address   string   `json:"ip" yaml:"ip"`
	Port      string   `json:"port" yaml:"port"`
	Protocols []string `json:"protocols" yaml:"protocols"`
	Speed     float64  `json:"speed" yaml:"speed"`
}

// DirectoryResult is the envelope returned by the directory service.
type DirectoryResult struct {
	Data []Record `json:"data"`
}

// UnmarshalJSON decodes a directory record. Only ip, port, protocols and
// speed are read; port and speed may be JSON strings or numbers. Missing
// fields are left at their zero value.
func (r *Record) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid proxy record: %s", truncate(data))
	}
	doc := gjson.ParseBytes(data)
	if doc.Type == gjson.Null {
		return nil
	}
	if !doc.IsObject() {
		return fmt.Errorf("proxy record must be an object, got %s", doc.Type)
	}

	*r = Record{
		Address: strings.TrimSpace(doc.Get("ip").String()),
		Port:    strings.TrimSpace(doc.Get("port").String()),
		Speed:   doc.Get("speed").Float(),
	}
	for _, p := range doc.Get("protocols").Array() {
		if s := strings.TrimSpace(p.String()); s != "" {
			r.Protocols = append(r.Protocols, s)
		}
	}
	return nil
}

// Scheme returns the first advertised protocol, or "" when there is none.
func (r Record) Scheme() string {
	if len(r.Protocols) == 0 {
		return ""
	}
	return strings.ToLower(r.Protocols[0])
}

// Usable reports whether the record can be turned into a proxy URL.
func (r Record) Usable() bool {
	return r.Address != "" && r.Port != "" && r.Scheme() != ""
}

// URL formats the record as {protocols[0]}://{address}:{port}.
func (r Record) URL() (*url.URL, error) {
	if !r.Usable() {
		return nil, fmt.Errorf("%w: %+v", ErrUnusableRecord, r)
	}
	return &url.URL{
		Scheme: r.Scheme(),
		Host:   net.JoinHostPort(r.Address, r.Port),
	}, nil
}

// String returns the proxy URL or a placeholder for unusable records.
func (r Record) String() string {
	u, err := r.URL()
	if err != nil {
		return fmt.Sprintf("<unusable %s:%s>", r.Address, r.Port)
	}
	return u.String()
}

// SelectFastest returns the record with the lowest Speed. Ties go to the
// earliest record. It returns nil when records is empty.
func SelectFastest(records []Record) *Record {
	if len(records) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(records); i++ {
		if records[i].Speed < records[best].Speed {
			best = i
		}
	}
	selected := records[best]
	return &selected
}

func truncate(b []byte) string {
	const max = 64
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
