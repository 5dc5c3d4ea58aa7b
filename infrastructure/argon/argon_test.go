package argon

import (
	"errors"
	"testing"
)

func TestCreateAndCompare(t *testing.T) {
	hash, err := CreateHash("Dispatch-Pass-2024", DefaultParams)
	if err != nil {
		t.Fatalf("create hash: %v", err)
	}
	ok, err := ComparePasswordAndHash("Dispatch-Pass-2024", hash)
	if err != nil {
		t.Fatalf("compare hash: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to match")
	}

	ok, err = ComparePasswordAndHash("wrong", hash)
	if err != nil {
		t.Fatalf("compare hash wrong: %v", err)
	}
	if ok {
		t.Fatalf("expected password mismatch")
	}
}

func TestCreateHashRejectsBlank(t *testing.T) {
	if _, err := CreateHash("   ", nil); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	if _, err := ComparePasswordAndHash("x", "$bcrypt$nope"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	weak := &Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	hash, err := CreateHash("Dispatch-Pass-2024", weak)
	if err != nil {
		t.Fatalf("create hash: %v", err)
	}
	if !NeedsRehash(hash, DefaultParams) {
		t.Fatalf("expected weak hash to need rehash")
	}
	if NeedsRehash(hash, weak) {
		t.Fatalf("expected hash to satisfy its own params")
	}
	if !NeedsRehash("garbage", nil) {
		t.Fatalf("expected malformed hash to need rehash")
	}
}
