package domain

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// User models an account holder. The password is kept as a bcrypt hash and
// never leaves the storage layer.
type User struct {
	Base      `mapstructure:",squash"`
	Email     string `json:"email" mapstructure:"email" validate:"max=128"`
	Password  string `json:"-" mapstructure:"password"`
	FirstName string `json:"first_name" mapstructure:"first_name" validate:"max=128"`
	LastName  string `json:"last_name" mapstructure:"last_name" validate:"max=128"`
}

func (u *User) Kind() Kind { return KindUser }

func (u *User) Attributes() map[string]any {
	return map[string]any{
		"email":      u.Email,
		"password":   u.Password,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

func (u *User) ToMap() map[string]any {
	m := u.toMap(KindUser)
	m["email"] = u.Email
	m["first_name"] = u.FirstName
	m["last_name"] = u.LastName
	return m
}

func (u *User) Clone() Model {
	c := *u
	return &c
}

// SetField hashes the password before it is stored.
func (u *User) SetField(name string, value any) (bool, error) {
	if name != "password" {
		return false, nil
	}
	plain, ok := value.(string)
	if !ok {
		return true, &ValueError{Field: name, Reason: "must be a string"}
	}
	return true, u.SetPassword(plain)
}

// SetPassword stores the bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return &ValueError{Field: "password", Reason: "too long"}
		}
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
