package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jfellows/userdir/internal/model"
)

// DecodeBody parses a JSON object body into a map, keeping unknown keys so
// whitelist checks can see them. A missing or empty body yields an empty
// map, which validation then treats as all fields absent.
func DecodeBody(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	body := map[string]any{}
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	// The body must be exactly one JSON value; trailing data is malformed.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON body")
	}
	return body, nil
}

// UserFields builds the full field set from a validated create/update body.
func UserFields(body map[string]any) model.UserFields {
	return model.UserFields{
		Username:    stringField(body, model.FieldUsername),
		DisplayName: stringField(body, model.FieldDisplayName),
	}
}

// UserPatch builds a partial field set from a validated patch body. Absent
// fields stay nil so the store keeps their existing values.
func UserPatch(body map[string]any) model.UserPatch {
	var patch model.UserPatch
	if _, ok := body[model.FieldUsername]; ok {
		v := stringField(body, model.FieldUsername)
		patch.Username = &v
	}
	if _, ok := body[model.FieldDisplayName]; ok {
		v := stringField(body, model.FieldDisplayName)
		patch.DisplayName = &v
	}
	return patch
}

func stringField(body map[string]any, field string) string {
	s, _ := body[field].(string)
	return s
}
