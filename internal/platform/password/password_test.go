package password

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("expected hash to differ from plain text")
	}
	if !Verify(hash, "s3cret") {
		t.Fatalf("expected password to verify")
	}
	if Verify(hash, "other") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := Hash("   "); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if Verify("", "x") {
		t.Fatalf("empty hash must never verify")
	}
}
