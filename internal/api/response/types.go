package response

import (
	"github.com/jfellows/userdir/internal/model"
)

// User represents a user in API responses
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

// UsersFromModel converts a slice of model users
func UsersFromModel(users []model.User) []User {
	out := make([]User, len(users))
	for i := range users {
		out[i] = UserFromModel(&users[i])
	}
	return out
}

// CreatedUser is the response for a successful create
type CreatedUser struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}
