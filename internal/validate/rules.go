package validate

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleRequired ruleKind = iota
	ruleOptional
	ruleIsString
	ruleIsInt
	ruleIsIn
	ruleLength
	rulePattern
	ruleTrim
	ruleCustom
)

// CheckFunc is a custom predicate. It receives the field's current string
// value and the full request, and returns an error describing the failure.
// It may consult external state, e.g. a store-backed uniqueness lookup.
type CheckFunc func(value string, req *Request) error

// Rule is a single declarative check within a field chain.
type Rule struct {
	kind  ruleKind
	msg   string
	min   int
	max   int
	set   []string
	re    *regexp.Regexp
	check CheckFunc
}

// Required fails when the field is absent or blank.
func Required(msg string) Rule { return Rule{kind: ruleRequired, msg: msg} }

// Optional stops the chain without errors when the field is absent.
func Optional() Rule { return Rule{kind: ruleOptional} }

// IsString fails when the field is absent or not a string value.
func IsString(msg string) Rule { return Rule{kind: ruleIsString, msg: msg} }

// IsInt fails when the field does not parse as an integer >= min.
func IsInt(min int, msg string) Rule { return Rule{kind: ruleIsInt, min: min, msg: msg} }

// IsIn fails when the field's value is not a member of set.
func IsIn(set []string, msg string) Rule { return Rule{kind: ruleIsIn, set: set, msg: msg} }

// Length fails when the field's length in runes is outside [min, max].
func Length(min, max int, msg string) Rule {
	return Rule{kind: ruleLength, min: min, max: max, msg: msg}
}

// Pattern fails when the field does not match re.
func Pattern(re *regexp.Regexp, msg string) Rule { return Rule{kind: rulePattern, re: re, msg: msg} }

// Trim strips leading and trailing whitespace from the value. The trimmed
// value is written back to the request, so later rules and the handler see
// the adjusted form.
func Trim() Rule { return Rule{kind: ruleTrim} }

// Custom runs an arbitrary predicate; its error message becomes the entry.
func Custom(check CheckFunc) Rule { return Rule{kind: ruleCustom, check: check} }

// chain applies an ordered list of rules to one field. Every failing rule
// contributes an entry; only Optional stops the chain.
type chain struct {
	loc   Location
	field string
	rules []Rule
}

// Field declares a rule chain for one field at the given location.
func Field(loc Location, field string, rules ...Rule) Check {
	return &chain{loc: loc, field: field, rules: rules}
}

func (c *chain) run(req *Request, res *Result) {
	raw, present := c.resolve(req)
	value := stringify(raw)

	for _, rule := range c.rules {
		switch rule.kind {
		case ruleOptional:
			if !present {
				return
			}
		case ruleRequired:
			if !present || strings.TrimSpace(value) == "" {
				res.add(c.loc, c.field, rule.msg)
			}
		case ruleIsString:
			_, isStr := raw.(string)
			if !present || !isStr {
				res.add(c.loc, c.field, rule.msg)
			}
		case ruleIsInt:
			n, err := strconv.Atoi(value)
			if !present || err != nil || n < rule.min {
				res.add(c.loc, c.field, rule.msg)
			}
		case ruleIsIn:
			if !present || !slices.Contains(rule.set, value) {
				res.add(c.loc, c.field, rule.msg)
			}
		case ruleLength:
			n := len([]rune(value))
			if !present || n < rule.min || n > rule.max {
				res.add(c.loc, c.field, rule.msg)
			}
		case rulePattern:
			if !present || !rule.re.MatchString(value) {
				res.add(c.loc, c.field, rule.msg)
			}
		case ruleTrim:
			value = strings.TrimSpace(value)
			raw = value
			if present {
				req.set(c.loc, c.field, value)
			}
		case ruleCustom:
			if err := rule.check(value, req); err != nil {
				res.add(c.loc, c.field, err.Error())
			}
		}
	}
}

func (c *chain) resolve(req *Request) (any, bool) {
	return req.lookup(c.loc, c.field)
}

// stringify renders a field value the way value rules see it. JSON numbers
// decode as float64; integral values render without an exponent.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// fieldsWhitelist rejects body keys outside the allowed set. It applies to
// the whole body object, once per request.
type fieldsWhitelist struct {
	allowed []string
}

// FieldsWhitelist declares the only keys a request body may contain.
func FieldsWhitelist(allowed ...string) Check {
	return &fieldsWhitelist{allowed: allowed}
}

func (c *fieldsWhitelist) run(req *Request, res *Result) {
	keys := make([]string, 0, len(req.Body))
	for k := range req.Body {
		keys = append(keys, k)
	}
	// Map iteration order is random; keep the error list deterministic.
	sort.Strings(keys)
	for _, k := range keys {
		if !slices.Contains(c.allowed, k) {
			res.add(Body, k, fmt.Sprintf("Unknown field: %s", k))
		}
	}
}

// atLeastOneOf fails when none of the listed body fields are present.
type atLeastOneOf struct {
	fields []string
	msg    string
}

// AtLeastOneOf requires at least one of the listed body fields.
func AtLeastOneOf(msg string, fields ...string) Check {
	return &atLeastOneOf{fields: fields, msg: msg}
}

func (c *atLeastOneOf) run(req *Request, res *Result) {
	for _, f := range c.fields {
		if _, ok := req.Body[f]; ok {
			return
		}
	}
	res.add(Body, strings.Join(c.fields, ", "), c.msg)
}

// mutuallyRequired fails when exactly one of two fields is present.
type mutuallyRequired struct {
	loc  Location
	a, b string
	msg  string
}

// MutuallyRequired requires the two fields to appear together or not at all.
func MutuallyRequired(loc Location, a, b, msg string) Check {
	return &mutuallyRequired{loc: loc, a: a, b: b, msg: msg}
}

func (c *mutuallyRequired) run(req *Request, res *Result) {
	_, hasA := req.lookup(c.loc, c.a)
	_, hasB := req.lookup(c.loc, c.b)
	if hasA && !hasB {
		res.add(c.loc, c.b, c.msg)
	}
	if hasB && !hasA {
		res.add(c.loc, c.a, c.msg)
	}
}
