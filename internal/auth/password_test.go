// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	other, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == other {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"changeme", true},
		{"wrongpassword", false},
		{"", false},
	}
	for _, tt := range tests {
		valid, err := CheckPassword(tt.password, hash)
		if err != nil {
			t.Fatalf("CheckPassword(%q) error: %v", tt.password, err)
		}
		if valid != tt.want {
			t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, valid, tt.want)
		}
	}
}

func TestCheckPassword_LegacyParameters(t *testing.T) {
	// Hash created with m=65536,t=1,p=4 before the parameters were lowered.
	legacy := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	valid, err := CheckPassword("changeme", legacy)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("legacy hash rejected correct password")
	}
	if !NeedsRehash(legacy) {
		t.Error("NeedsRehash(legacy) = false, want true")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$garbage$a$b"} {
		_, err := CheckPassword("x", hash)
		if !errors.Is(err, ErrInvalidHash) {
			t.Errorf("CheckPassword with %q: err = %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestNeedsRehash_Current(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if NeedsRehash(hash) {
		t.Error("NeedsRehash(current) = true, want false")
	}
}

func TestBurnPasswordCheck(t *testing.T) {
	// Must not panic and must be callable repeatedly.
	BurnPasswordCheck("anything")
	BurnPasswordCheck("anything else")
}

func TestNewResetToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tok, err := NewResetToken(now)
	if err != nil {
		t.Fatalf("NewResetToken error: %v", err)
	}
	if len(tok.Plain) != 64 {
		t.Errorf("len(Plain) = %d, want 64", len(tok.Plain))
	}
	if tok.Hash != HashResetToken(tok.Plain) {
		t.Error("Hash does not match HashResetToken(Plain)")
	}
	if tok.Hash == tok.Plain {
		t.Error("Hash must not equal the plaintext token")
	}
	if !tok.ExpiresAt.Equal(now.Add(ResetTokenTTL)) {
		t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, now.Add(ResetTokenTTL))
	}
}

func TestHashResetToken_Known(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashResetToken("abc"); got != want {
		t.Errorf("HashResetToken(abc) = %q, want %q", got, want)
	}
}
