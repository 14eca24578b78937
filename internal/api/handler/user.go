package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jfellows/userdir/internal/api/request"
	"github.com/jfellows/userdir/internal/api/response"
	"github.com/jfellows/userdir/internal/model"
	"github.com/jfellows/userdir/internal/services/users"
	"github.com/jfellows/userdir/internal/validate"
)

// Validation failure messages. These are part of the API contract; clients
// match on them.
const (
	msgIDPositiveInt       = "Id must be a positive integer"
	msgUsernameRequired    = "Username is required"
	msgUsernameString      = "Username must be a string"
	msgUsernameLength      = "Username must be between 3 and 20 characters"
	msgUsernamePattern     = "Username can only contain letters, numbers, and underscores"
	msgUsernameTaken       = "Username already exists"
	msgDisplayNameRequired = "Display name is required"
	msgDisplayNameString   = "Display name must be a string"
	msgDisplayNameLength   = "Display name must be between 2 and 50 characters"
	msgFilterInvalid       = "Filter must be either username or displayName"
	msgValueLength         = "Value must be between 1 and 50 characters"
	msgFilterValuePair     = "Both filter and value must be provided together"
	msgAtLeastOneField     = "At least one field (username or displayName) must be provided for update"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// UserHandler handles the user directory endpoints
type UserHandler struct {
	users *users.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *users.Service) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// validationRequest assembles the material a validation run inspects.
func validationRequest(r *http.Request, body map[string]any) *validate.Request {
	return &validate.Request{
		Path:  mux.Vars(r),
		Query: r.URL.Query(),
		Body:  body,
	}
}

// idCheck validates the id path parameter.
func (h *UserHandler) idCheck() validate.Check {
	return validate.Field(validate.Path, "id", validate.IsInt(1, msgIDPositiveInt))
}

// uniqueUsername checks the username against every other record. When
// excludeSelf is set the path id is excluded, so a record may keep its own
// username across an update.
func (h *UserHandler) uniqueUsername(ctx context.Context, excludeSelf bool) validate.Rule {
	return validate.Custom(func(value string, req *validate.Request) error {
		selfID := 0
		if excludeSelf {
			selfID, _ = strconv.Atoi(req.Path["id"])
		}
		taken, err := h.users.UsernameTaken(ctx, value, selfID)
		if err != nil {
			return err
		}
		if taken {
			return errors.New(msgUsernameTaken)
		}
		return nil
	})
}

func (h *UserHandler) usernameCheck(ctx context.Context, optional, excludeSelf bool) validate.Check {
	rules := []validate.Rule{}
	if optional {
		rules = append(rules, validate.Optional())
	} else {
		rules = append(rules, validate.Required(msgUsernameRequired))
	}
	rules = append(rules,
		validate.IsString(msgUsernameString),
		validate.Length(3, 20, msgUsernameLength),
		validate.Pattern(usernamePattern, msgUsernamePattern),
		h.uniqueUsername(ctx, excludeSelf),
	)
	return validate.Field(validate.Body, model.FieldUsername, rules...)
}

func (h *UserHandler) displayNameCheck(optional bool) validate.Check {
	rules := []validate.Rule{}
	if optional {
		rules = append(rules, validate.Optional())
	} else {
		rules = append(rules, validate.Required(msgDisplayNameRequired))
	}
	rules = append(rules,
		validate.IsString(msgDisplayNameString),
		validate.Trim(),
		validate.Length(2, 50, msgDisplayNameLength),
	)
	return validate.Field(validate.Body, model.FieldDisplayName, rules...)
}

func bodyWhitelist() validate.Check {
	return validate.FieldsWhitelist(model.FieldUsername, model.FieldDisplayName)
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	vreq := validationRequest(r, nil)
	res := validate.Run(vreq,
		validate.Field(validate.Query, "filter",
			validate.Optional(),
			validate.IsIn([]string{model.FieldUsername, model.FieldDisplayName}, msgFilterInvalid),
		),
		validate.Field(validate.Query, "value",
			validate.Optional(),
			validate.Length(1, 50, msgValueLength),
		),
		validate.MutuallyRequired(validate.Query, "filter", "value", msgFilterValuePair),
	)
	if !res.OK() {
		WriteValidationError(w, res.Errors())
		return
	}

	var (
		list []model.User
		err  error
	)
	if vreq.Query.Has("filter") {
		list, err = h.users.Filter(r.Context(), vreq.Query.Get("filter"), vreq.Query.Get("value"))
	} else {
		list, err = h.users.List(r.Context())
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UsersFromModel(list))
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	vreq := validationRequest(r, nil)
	if res := validate.Run(vreq, h.idCheck()); !res.OK() {
		WriteValidationError(w, res.Errors())
		return
	}

	id, _ := strconv.Atoi(vreq.Path["id"])
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	vreq := validationRequest(r, body)
	res := validate.Run(vreq,
		h.usernameCheck(r.Context(), false, false),
		h.displayNameCheck(false),
		bodyWhitelist(),
	)
	if !res.OK() {
		WriteValidationError(w, res.Errors())
		return
	}

	u, err := h.users.Create(r.Context(), request.UserFields(body))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedUser{
		Message: "User created successfully",
		User:    response.UserFromModel(u),
	})
}

// Replace handles PUT /api/users/{id}
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	vreq := validationRequest(r, body)
	res := validate.Run(vreq,
		h.idCheck(),
		h.usernameCheck(r.Context(), false, true),
		h.displayNameCheck(false),
		bodyWhitelist(),
	)
	if !res.OK() {
		WriteValidationError(w, res.Errors())
		return
	}

	id, _ := strconv.Atoi(vreq.Path["id"])
	if err := h.users.Replace(r.Context(), id, request.UserFields(body)); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w)
}

// Patch handles PATCH /api/users/{id}
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(r)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	vreq := validationRequest(r, body)
	res := validate.Run(vreq,
		h.idCheck(),
		h.usernameCheck(r.Context(), true, true),
		h.displayNameCheck(true),
		bodyWhitelist(),
		validate.AtLeastOneOf(msgAtLeastOneField, model.FieldUsername, model.FieldDisplayName),
	)
	if !res.OK() {
		WriteValidationError(w, res.Errors())
		return
	}

	id, _ := strconv.Atoi(vreq.Path["id"])
	if err := h.users.Patch(r.Context(), id, request.UserPatch(body)); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vreq := validationRequest(r, nil)
	if res := validate.Run(vreq, h.idCheck()); !res.OK() {
		WriteValidationError(w, res.Errors())
		return
	}

	id, _ := strconv.Atoi(vreq.Path["id"])
	if err := h.users.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w)
}
