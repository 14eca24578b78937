package model

// User is a single record in the user directory.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// UserFields holds the mutable fields of a user, used for create and full
// update. A full update discards whatever the record held before.
type UserFields struct {
	Username    string
	DisplayName string
}

// UserPatch holds optional fields for a partial update. A nil field keeps
// the record's existing value.
type UserPatch struct {
	Username    *string
	DisplayName *string
}

// Field names accepted by the list endpoint's filter parameter
const (
	FieldUsername    = "username"
	FieldDisplayName = "displayName"
)

// FieldValue returns the string value of a filterable field. An unknown
// field name resolves to no value rather than an error, so filtering on it
// matches nothing.
func (u User) FieldValue(field string) (string, bool) {
	switch field {
	case FieldUsername:
		return u.Username, true
	case FieldDisplayName:
		return u.DisplayName, true
	default:
		return "", false
	}
}

// SeedUsers returns the fixed records loaded into an empty store on startup.
func SeedUsers() []User {
	return []User{
		{ID: 1, Username: "johndoe", DisplayName: "John Doe"},
		{ID: 2, Username: "janedoe", DisplayName: "Jane Doe"},
		{ID: 3, Username: "sundar2025", DisplayName: "Sundaresh"},
		{ID: 4, Username: "coolcoder", DisplayName: "Code Master"},
		{ID: 5, Username: "techqueen", DisplayName: "Tech Queen"},
	}
}
