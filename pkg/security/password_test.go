package security

import (
	"strings"
	"testing"

	"github.com/shoponthefly/backend/pkg/config"
)

func testConfig() config.PasswordConfig {
	// Small parameters keep the tests fast; clamps guard the floor.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22", testConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("hunter22", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("hunter22", testConfig())
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := HashPassword("hunter22", testConfig())
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatal("expected unique salts to produce distinct hashes")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", testConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1$c2FsdA",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("hunter22", encoded); err != ErrInvalidHash {
			t.Fatalf("hash %q: expected ErrInvalidHash, got %v", encoded, err)
		}
	}
}
