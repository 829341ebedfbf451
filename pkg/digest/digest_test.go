package digest

import "testing"

func TestHash_KnownVector(t *testing.T) {
	// SHA-256("abc"), hex.
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash("abc"); got != want {
		t.Fatalf("Hash(abc) = %s, want %s", got, want)
	}
	if got := HashBytes([]byte("abc")); got != want {
		t.Fatalf("HashBytes(abc) = %s, want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	h := Hash("payload")
	if !Verify("payload", h) {
		t.Fatal("Verify = false for matching digest")
	}
	if Verify("tampered", h) {
		t.Fatal("Verify = true for non-matching digest")
	}
}

func TestEqual(t *testing.T) {
	if !Equal("token-a", "token-a") {
		t.Fatal("Equal = false for identical tokens")
	}
	if Equal("token-a", "token-b") {
		t.Fatal("Equal = true for different tokens")
	}
}
