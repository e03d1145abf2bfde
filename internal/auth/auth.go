package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken covers every reset-token failure mode: bad signature,
// expired, malformed. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid or expired token")

// passwordCost matches the salt rounds the account hashes were created with.
const passwordCost = 10

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	return string(b), err
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ResetClaims is the payload of a password-reset token.
type ResetClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"uid"`
	jwt.RegisteredClaims
}

// ResetKey derives the signing key for a user's reset tokens. Because the
// current password hash is part of the key, changing the password makes
// every previously issued token unverifiable.
func ResetKey(serverSecret, passwordHash string) []byte {
	return []byte(serverSecret + passwordHash)
}

// SignResetToken issues a reset token for the given account, valid for ttl.
func SignResetToken(email string, userID uint, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		Email:  email,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyResetToken checks signature and expiry and returns the payload.
// Any failure comes back as ErrInvalidToken.
func VerifyResetToken(tokenStr string, key []byte) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*ResetClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
