package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidTokenParams = errors.New("invalid params for generating JWT token")
	ErrNoTokenSubject     = errors.New("token has no subject")
	ErrInvalidAuthHeader  = errors.New("invalid authorization header")
)

// GenerateJWTToken signs an HS256 access token for userID. The user id goes
// into "sub"; the token expires after ttl.
func GenerateJWTToken(issuer string, userID int64, ttl time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || ttl == 0 || signKey == "" {
		return models.Token{}, ErrInvalidTokenParams
	}

	issuedAt := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	})

	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("sign JWT token: %w", err)
	}

	return models.Token{Token: token, SignedString: signed, UserID: userID}, nil
}

// ValidateAndParseJWTToken checks signature, issuer and expiry of raw and
// returns the token with UserID filled from "sub". Only HS256 is accepted
// and a token without "exp" is rejected.
func ValidateAndParseJWTToken(raw, signKey, issuer string) (models.Token, error) {
	claims := &models.Token{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return []byte(signKey), nil },
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("parse JWT token: %w", err)
	}

	if claims.Subject == "" {
		return models.Token{}, ErrNoTokenSubject
	}
	userID, err := claims.GetUserID()
	if err != nil {
		return models.Token{}, err
	}

	return models.Token{Token: token, RegisteredClaims: claims.RegisteredClaims, SignedString: raw, UserID: userID}, nil
}

// ParseBearerToken returns t from an "Authorization: Bearer t" value.
func ParseBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsRune(token, ' ') {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}
