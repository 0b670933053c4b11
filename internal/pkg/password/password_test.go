package password

import (
	"strings"
	"testing"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher()

	encoded, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}
	if !h.Verify("correct horse battery staple", encoded) {
		t.Fatal("Verify rejected the original password")
	}
	if h.Verify("wrong password", encoded) {
		t.Fatal("Verify accepted a wrong password")
	}
}

func TestHasher_UniqueSalts(t *testing.T) {
	h := NewHasher()

	a, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
}

func TestHasher_Verify_MalformedHash(t *testing.T) {
	h := NewHasher()

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	} {
		if h.Verify("anything", encoded) {
			t.Errorf("Verify accepted malformed hash %q", encoded)
		}
	}
}
