package validate

import (
	"errors"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidateSuite struct {
	suite.Suite
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateSuite))
}

func (s *ValidateSuite) request(body map[string]any) *Request {
	return &Request{
		Path:  map[string]string{},
		Query: url.Values{},
		Body:  body,
	}
}

// Field chain tests

func (s *ValidateSuite) TestRequiredFailsWhenAbsent() {
	req := s.request(map[string]any{})
	res := Run(req, Field(Body, "username", Required("Username is required")))

	s.False(res.OK())
	s.Equal("Username is required", res.Errors()[0].Msg)
	s.Equal("username", res.Errors()[0].Field)
}

func (s *ValidateSuite) TestRequiredFailsWhenBlank() {
	req := s.request(map[string]any{"username": "   "})
	res := Run(req, Field(Body, "username", Required("Username is required")))

	s.False(res.OK())
}

func (s *ValidateSuite) TestAllFailingRulesReport() {
	// A one-character value with an illegal rune fails both the length and
	// the pattern rule; both entries must surface.
	req := s.request(map[string]any{"username": "!"})
	res := Run(req, Field(Body, "username",
		Length(3, 20, "too short"),
		Pattern(regexp.MustCompile(`^[a-zA-Z0-9_]+$`), "bad characters"),
	))

	s.Len(res.Errors(), 2)
	s.Equal("too short", res.Errors()[0].Msg)
	s.Equal("bad characters", res.Errors()[1].Msg)
}

func (s *ValidateSuite) TestOptionalStopsChainWhenAbsent() {
	req := s.request(map[string]any{})
	res := Run(req, Field(Body, "username",
		Optional(),
		Length(3, 20, "too short"),
	))

	s.True(res.OK())
}

func (s *ValidateSuite) TestOptionalRunsChainWhenPresent() {
	req := s.request(map[string]any{"username": "ab"})
	res := Run(req, Field(Body, "username",
		Optional(),
		Length(3, 20, "too short"),
	))

	s.False(res.OK())
}

func (s *ValidateSuite) TestIsStringRejectsNonString() {
	req := s.request(map[string]any{"username": 42.0})
	res := Run(req, Field(Body, "username", IsString("must be a string")))

	s.False(res.OK())
	s.Equal("must be a string", res.Errors()[0].Msg)
}

func (s *ValidateSuite) TestIsIntAcceptsIntegerAtLeastMin() {
	req := s.request(nil)
	req.Path["id"] = "3"
	res := Run(req, Field(Path, "id", IsInt(1, "positive integer")))

	s.True(res.OK())
}

func (s *ValidateSuite) TestIsIntRejectsZeroAndGarbage() {
	for _, bad := range []string{"0", "-2", "abc", "1.5", ""} {
		req := s.request(nil)
		req.Path["id"] = bad
		res := Run(req, Field(Path, "id", IsInt(1, "positive integer")))
		s.False(res.OK(), "value %q should fail", bad)
	}
}

func (s *ValidateSuite) TestIsInChecksMembership() {
	req := s.request(nil)
	req.Query.Set("filter", "email")
	res := Run(req, Field(Query, "filter", IsIn([]string{"username", "displayName"}, "bad filter")))

	s.False(res.OK())
}

func (s *ValidateSuite) TestTrimWritesBackBeforeLaterRules() {
	req := s.request(map[string]any{"displayName": "  A  "})
	res := Run(req, Field(Body, "displayName",
		Trim(),
		Length(2, 50, "bad length"),
	))

	// Trimmed to "A": the length rule sees one rune and the body holds the
	// trimmed value for the handler.
	s.False(res.OK())
	s.Equal("A", req.Body["displayName"])
}

func (s *ValidateSuite) TestCustomErrorBecomesEntry() {
	req := s.request(map[string]any{"username": "johndoe"})
	res := Run(req, Field(Body, "username", Custom(func(value string, _ *Request) error {
		return errors.New("Username already exists")
	})))

	s.False(res.OK())
	s.Equal("Username already exists", res.Errors()[0].Msg)
}

func (s *ValidateSuite) TestCustomSeesFullRequest() {
	req := s.request(map[string]any{"username": "johndoe"})
	req.Path["id"] = "7"

	var sawID string
	res := Run(req, Field(Body, "username", Custom(func(value string, r *Request) error {
		sawID = r.Path["id"]
		return nil
	})))

	s.True(res.OK())
	s.Equal("7", sawID)
}

// Request-level check tests

func (s *ValidateSuite) TestFieldsWhitelistListsOffenders() {
	req := s.request(map[string]any{
		"username": "abc",
		"role":     "admin",
		"age":      30.0,
	})
	res := Run(req, FieldsWhitelist("username", "displayName"))

	s.Len(res.Errors(), 2)
	s.Equal("age", res.Errors()[0].Field)
	s.Equal("role", res.Errors()[1].Field)
}

func (s *ValidateSuite) TestAtLeastOneOfFailsOnEmptyBody() {
	req := s.request(map[string]any{})
	res := Run(req, AtLeastOneOf("at least one field", "username", "displayName"))

	s.False(res.OK())
	s.Equal("at least one field", res.Errors()[0].Msg)
}

func (s *ValidateSuite) TestAtLeastOneOfPassesWithOneField() {
	req := s.request(map[string]any{"displayName": "A B"})
	res := Run(req, AtLeastOneOf("at least one field", "username", "displayName"))

	s.True(res.OK())
}

func (s *ValidateSuite) TestMutuallyRequiredBothDirections() {
	req := s.request(nil)
	req.Query.Set("filter", "username")
	res := Run(req, MutuallyRequired(Query, "filter", "value", "must be paired"))
	s.False(res.OK())
	s.Equal("value", res.Errors()[0].Field)

	req = s.request(nil)
	req.Query.Set("value", "john")
	res = Run(req, MutuallyRequired(Query, "filter", "value", "must be paired"))
	s.False(res.OK())
	s.Equal("filter", res.Errors()[0].Field)
}

func (s *ValidateSuite) TestMutuallyRequiredPassesTogetherAndApart() {
	req := s.request(nil)
	req.Query.Set("filter", "username")
	req.Query.Set("value", "john")
	s.True(Run(req, MutuallyRequired(Query, "filter", "value", "must be paired")).OK())

	s.True(Run(s.request(nil), MutuallyRequired(Query, "filter", "value", "must be paired")).OK())
}

func (s *ValidateSuite) TestRunCollectsAcrossChecksInOrder() {
	req := s.request(map[string]any{"extra": true})
	res := Run(req,
		Field(Body, "username", Required("Username is required")),
		FieldsWhitelist("username", "displayName"),
	)

	s.Len(res.Errors(), 2)
	s.Equal("Username is required", res.Errors()[0].Msg)
	s.Equal("extra", res.Errors()[1].Field)
}
