package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a raw password with bcrypt's default cost
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored bcrypt hash with a raw password
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UnknownUserHash is a fixed bcrypt hash at the default cost that no login
// password matches. Comparing against it when a username does not exist makes
// the miss cost as much as a wrong password.
var UnknownUserHash = sync.OnceValue(func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("unknown-user\x00placeholder"), bcrypt.DefaultCost)
	if err != nil {
		panic("auth: cannot build unknown user hash: " + err.Error())
	}
	return string(hashed)
})
