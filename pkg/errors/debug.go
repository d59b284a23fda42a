package errors

import (
	"errors"
	"fmt"
)

// UpstreamError carries the raw detail of a non-2xx marketplace backend
// response so the chain dump can expose it without leaking it to clients.
type UpstreamError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (u *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s %s returned %d", u.Method, u.Path, u.Status)
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamMethod string `json:"upstream_method,omitempty"`
	UpstreamPath   string `json:"upstream_path,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		d.UpstreamStatus = upstream.Status
		d.UpstreamMethod = upstream.Method
		d.UpstreamPath = upstream.Path
		d.UpstreamBody = upstream.Body
	}

	return d
}
