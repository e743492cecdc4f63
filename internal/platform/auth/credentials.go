package auth

import "github.com/alexedwards/argon2id"

// Credentials abstracts how a password is stored and checked. The default is
// plaintext equality, which the reference dataset and its compatibility
// tests require. Argon2idCredentials is the opt-in hashed strategy; the two
// are not interchangeable over an existing users collection.
type Credentials interface {
	Store(password string) (string, error)
	Match(supplied, stored string) bool
}

type PlainCredentials struct{}

func (PlainCredentials) Store(password string) (string, error) {
	return password, nil
}

func (PlainCredentials) Match(supplied, stored string) bool {
	return supplied == stored
}

type Argon2idCredentials struct{}

func (Argon2idCredentials) Store(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

func (Argon2idCredentials) Match(supplied, stored string) bool {
	ok, _ := argon2id.ComparePasswordAndHash(supplied, stored)
	return ok
}
