// Package validate implements declarative request validation: ordered
// per-field rule chains evaluated by a generic runner, with every failure
// aggregated into a single result.
package validate

import (
	"net/url"
)

// Location identifies where a field is read from.
type Location string

const (
	Path  Location = "path"
	Query Location = "query"
	Body  Location = "body"
)

// FieldError is a single validation failure.
type FieldError struct {
	Msg      string   `json:"msg"`
	Field    string   `json:"field"`
	Location Location `json:"location"`
}

// Request carries the raw request material a validation run inspects.
// Body is nil for routes without a JSON body. Rules with side effects
// (trimming) write back into these maps, so downstream consumers observe
// the adjusted values.
type Request struct {
	Path  map[string]string
	Query url.Values
	Body  map[string]any
}

func (r *Request) lookup(loc Location, field string) (any, bool) {
	switch loc {
	case Path:
		v, ok := r.Path[field]
		return v, ok
	case Query:
		if r.Query == nil || !r.Query.Has(field) {
			return nil, false
		}
		return r.Query.Get(field), true
	case Body:
		v, ok := r.Body[field]
		return v, ok
	}
	return nil, false
}

func (r *Request) set(loc Location, field, value string) {
	switch loc {
	case Path:
		r.Path[field] = value
	case Query:
		r.Query.Set(field, value)
	case Body:
		r.Body[field] = value
	}
}

// Result aggregates validation failures for one request.
type Result struct {
	errs []FieldError
}

// OK reports whether the request passed every check.
func (r *Result) OK() bool { return len(r.errs) == 0 }

// Errors returns the collected failures in evaluation order.
func (r *Result) Errors() []FieldError { return r.errs }

func (r *Result) add(loc Location, field, msg string) {
	r.errs = append(r.errs, FieldError{Msg: msg, Field: field, Location: loc})
}

// Check is one unit of request validation: a field rule chain or a
// request-level check such as a body whitelist.
type Check interface {
	run(req *Request, res *Result)
}

// Run evaluates every check against the request. All checks run regardless
// of earlier failures, so the response can list every problem at once.
func Run(req *Request, checks ...Check) *Result {
	res := &Result{}
	for _, c := range checks {
		c.run(req, res)
	}
	return res
}
