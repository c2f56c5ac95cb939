package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmpty = errors.New("password required")

// Hash devuelve el hash bcrypt de plain.
func Hash(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", ErrEmpty
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Verify(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
