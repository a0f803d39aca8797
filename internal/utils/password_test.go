package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash = %q, want bcrypt output", hash)
	}
	if !VerifyPassword(hash, "secret") {
		t.Error("correct password did not verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password verified")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	// 0 and 99 are outside bcrypt's range; both must still produce a
	// verifying hash via the default cost.
	for _, cost := range []int{0, 99} {
		hash, err := HashPassword("secret", cost)
		if err != nil {
			t.Fatalf("HashPassword(cost=%d): %v", cost, err)
		}
		if !VerifyPassword(hash, "secret") {
			t.Errorf("hash at cost %d does not verify", cost)
		}
		if got, err := bcrypt.Cost([]byte(hash)); err != nil || got != bcrypt.DefaultCost {
			t.Errorf("cost = %d (err %v), want %d", got, err, bcrypt.DefaultCost)
		}
	}
}
