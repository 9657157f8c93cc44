package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckSecret(t *testing.T) {
	t.Parallel()

	digest, err := HashSecret("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashSecret error: %v", err)
	}

	if !CheckSecret(digest, "secret1") {
		t.Fatal("expected matching secret to verify")
	}
	if CheckSecret(digest, "secret2") {
		t.Fatal("expected mismatched secret to fail")
	}
}

func TestHashSecret_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	a, err := HashSecret("482913", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashSecret error: %v", err)
	}
	b, err := HashSecret("482913", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashSecret error: %v", err)
	}
	if a == b {
		t.Fatal("expected salted digests to differ for the same input")
	}
}

func TestHashSecret_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	digest, err := HashSecret("secret1", 99)
	if err != nil {
		t.Fatalf("HashSecret error: %v", err)
	}
	if !CheckSecret(digest, "secret1") {
		t.Fatal("expected digest at fallback cost to verify")
	}
}

func TestCheckSecret_MalformedDigest(t *testing.T) {
	t.Parallel()

	if CheckSecret("not-a-bcrypt-digest", "anything") {
		t.Fatal("expected malformed digest to count as mismatch")
	}
	if CheckSecret("", "anything") {
		t.Fatal("expected empty digest to count as mismatch")
	}
}
