package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/cfsexam/internal/common"
)

func TestHashAndVerify_Success(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ (fresh salt)")
	}

	for _, h := range []string{h1, h2} {
		ok, err := VerifyPassword("password123", h)
		if err != nil || !ok {
			t.Fatalf("both salted hashes must verify: ok=%v err=%v", ok, err)
		}
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := VerifyPassword("password124", hash)
	if err != nil {
		t.Fatalf("wrong password must not be an error, got %v", err)
	}
	if ok {
		t.Fatalf("wrong password verified")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
	}
	for _, c := range cases {
		if _, err := VerifyPassword("whatever", c); err == nil {
			t.Fatalf("expected error for malformed hash %q", c)
		}
	}
}

func TestHashPassword_RejectsEmptyAndOversized(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}

	long := strings.Repeat("x", common.PasswordMaxLength+1)
	if _, err := HashPassword(long); err == nil {
		t.Fatalf("expected error for oversized password")
	}
}

func TestVerifyPassword_ParamsFromHashString(t *testing.T) {
	t.Parallel()

	// A hash produced with different (weaker) parameters than the current
	// defaults must still verify, because verification is self-describing.
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte("password123"), salt, 2, 8*1024, 1, 16)
	legacy := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 8*1024, 2, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	ok, err := VerifyPassword("password123", legacy)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatalf("hash with embedded legacy parameters must verify")
	}
}
