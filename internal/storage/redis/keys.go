package redis

import "fmt"

// Key prefix for all user directory data
const keyPrefix = "userdir"

// userKey returns the Redis key for a user record
func userKey(id int) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// orderKey returns the Redis key for the insertion-order list of ids
func orderKey() string {
	return fmt.Sprintf("%s:users", keyPrefix)
}

// usernameIndexKey returns the Redis key for the username -> id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
