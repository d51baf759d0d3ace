package security

import (
	"testing"
	"time"
)

func TestGenerateAdminToken_RoundTrip(t *testing.T) {
	// WHAT: a freshly minted admin token validates and carries the admin role.
	// WHY: the auth middleware trusts exactly this claim to gate every route.
	secret := "test-secret"
	token, err := GenerateAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !IsAdminClaims(claims) {
		t.Fatal("expected admin role claim")
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	// WHAT: a token signed with one secret does not validate under another.
	token, err := GenerateAdminToken("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT(token, "secret-b"); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateJWT_Expired(t *testing.T) {
	// WHAT: a token past its exp claim is rejected.
	token, err := GenerateAdminToken("secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyAdminPassword(t *testing.T) {
	// WHAT: hash/verify round-trips and an empty stored hash never matches.
	// WHY: an unset ADMIN_PASSWORD_HASH must fail closed, not open.
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyAdminPassword("hunter2", hash) {
		t.Fatal("correct password should verify")
	}
	if VerifyAdminPassword("wrong", hash) {
		t.Fatal("wrong password should not verify")
	}
	if VerifyAdminPassword("", "") {
		t.Fatal("empty stored hash must not verify")
	}
}

func TestGenerateULID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateULID()
		if len(id) != 26 {
			t.Fatalf("unexpected ulid length for %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ulid %q", id)
		}
		seen[id] = true
	}
}
