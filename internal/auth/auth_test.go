package auth

import (
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password123", false},
		{"empty password", "", false},
		{"long password", "a" + string(make([]byte, 70)), false}, // bcrypt max is 72 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && hash == "" {
				t.Error("HashPassword() returned empty hash")
			}
		})
	}
}

func TestHashPassword_DifferentHashes(t *testing.T) {
	password := "testpassword"
	hash1, _ := HashPassword(password)
	hash2, _ := HashPassword(password)

	if hash1 == hash2 {
		t.Error("HashPassword() should produce different hashes for same password")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{"correct password", hash, password, true},
		{"wrong password", hash, "wrongpassword", false},
		{"empty password", hash, "", false},
		{"invalid hash", "invalidhash", password, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.hash, tt.password); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignResetToken_RoundTrip(t *testing.T) {
	key := ResetKey("server-secret", "$2a$10$somestoredpasswordhash")

	token, err := SignResetToken("a@x.com", 42, key, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignResetToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("SignResetToken() returned empty token")
	}

	claims, err := VerifyResetToken(token, key)
	if err != nil {
		t.Fatalf("VerifyResetToken() error = %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("VerifyResetToken() Email = %v, want a@x.com", claims.Email)
	}
	if claims.UserID != 42 {
		t.Errorf("VerifyResetToken() UserID = %v, want 42", claims.UserID)
	}
}

func TestVerifyResetToken_KeyChangeInvalidates(t *testing.T) {
	// Changing the password changes the hash, which changes the key; every
	// token issued under the old hash must stop verifying.
	oldKey := ResetKey("server-secret", "old-hash")
	newKey := ResetKey("server-secret", "new-hash")

	token, err := SignResetToken("a@x.com", 1, oldKey, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignResetToken() error = %v", err)
	}

	if _, err := VerifyResetToken(token, oldKey); err != nil {
		t.Errorf("VerifyResetToken() with original key should succeed: %v", err)
	}
	if _, err := VerifyResetToken(token, newKey); err == nil {
		t.Error("VerifyResetToken() should fail after key change")
	}
}

func TestVerifyResetToken_Failures(t *testing.T) {
	key := ResetKey("server-secret", "hash")
	token, err := SignResetToken("a@x.com", 1, key, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignResetToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		key   []byte
	}{
		{"wrong key", token, ResetKey("other-secret", "hash")},
		{"malformed token", "not.a.token", key},
		{"empty token", "", key},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := VerifyResetToken(tt.token, tt.key)
			if err != ErrInvalidToken {
				t.Errorf("VerifyResetToken() error = %v, want ErrInvalidToken", err)
			}
			if claims != nil {
				t.Error("VerifyResetToken() should return nil claims on failure")
			}
		})
	}
}

func TestVerifyResetToken_Expired(t *testing.T) {
	key := ResetKey("server-secret", "hash")
	token, err := SignResetToken("a@x.com", 1, key, -time.Minute)
	if err != nil {
		t.Fatalf("SignResetToken() error = %v", err)
	}

	claims, err := VerifyResetToken(token, key)
	if err != ErrInvalidToken {
		t.Errorf("VerifyResetToken() error = %v, want ErrInvalidToken for expired token", err)
	}
	if claims != nil {
		t.Error("VerifyResetToken() should return nil claims for expired token")
	}
}
