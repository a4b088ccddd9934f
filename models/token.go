package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an access token on its way out (CreateToken) or in
// (ParseToken). It also serves as the claims type while parsing, which is
// why the registered claims are embedded.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	// SignedString is the compact form sent as "Authorization: Bearer".
	SignedString string `json:"-"`
	// UserID is "sub" as a number, filled once the token is verified.
	UserID int64 `json:"-"`
}

// GetUserID reads the user id from "sub".
func (t *Token) GetUserID() (int64, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("read token subject: %w", err)
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token subject %q is not a user id: %w", sub, err)
	}
	return id, nil
}

func (t *Token) String() string {
	return t.SignedString
}
