// Package storage defines the key/value port the client keeps its session
// state in: credentials after login and the conversation snapshot.
//
// Two backends are provided. Memory keeps values for the life of the
// process; File persists them to a YAML document so a later invocation of
// the CLI resumes where the previous one stopped.
package storage

import "github.com/campainly/campaigner/pkg/constants"

// Storage is a string key/value store.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

// AuthToken returns the stored bearer token, or "" when none is stored or
// s is nil.
func AuthToken(s Storage) string {
	if s == nil {
		return ""
	}
	token, _ := s.Get(constants.KeyAuthToken)
	return token
}

// ClearAuth removes every credential key. Errors are ignored so one
// unwritable key never prevents the rest from being cleared.
func ClearAuth(s Storage) {
	if s == nil {
		return
	}
	for _, key := range constants.AuthKeys {
		_ = s.Remove(key)
	}
}
