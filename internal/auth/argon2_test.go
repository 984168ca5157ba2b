package auth

import (
	"strings"
	"testing"
)

func TestHashSecret(t *testing.T) {
	hash, err := HashSecret("dd_live_7a9f3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash = %q, want argon2id v=19 PHC prefix", hash)
	}
	if len(strings.Split(hash, "$")) != 6 {
		t.Errorf("hash has %d segments, want 6", len(strings.Split(hash, "$")))
	}
}

func TestHashSecret_UniqueSalts(t *testing.T) {
	first, err := HashSecret("same-input")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	second, err := HashSecret("same-input")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same input are identical; salt not applied")
	}
}

func TestVerifySecret(t *testing.T) {
	secret := "dd_test_abcdef_0123456789abcdef0123456789abcdef"
	hash, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	tests := []struct {
		name    string
		secret  string
		hash    string
		want    bool
		wantErr bool
	}{
		{"correct secret", secret, hash, true, false},
		{"wrong secret", "dd_test_abcdef_ffffffffffffffffffffffffffffffff", hash, false, false},
		{"empty secret", "", hash, false, false},
		{"malformed hash", secret, "not-a-hash", false, true},
		{"wrong algorithm", secret, "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", false, true},
		{"truncated hash", secret, "$argon2id$v=19$m=65536", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifySecret(tt.secret, tt.hash)
			if tt.wantErr {
				if err == nil {
					t.Fatal("VerifySecret() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifySecret() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifySecret() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifySecret_IncompatibleVersion(t *testing.T) {
	_, err := VerifySecret("anything", "$argon2id$v=18$m=65536,t=3,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g")
	if err != ErrIncompatibleVersion {
		t.Errorf("error = %v, want ErrIncompatibleVersion", err)
	}
}

func TestQuickHash(t *testing.T) {
	first := QuickHash("input-a")
	if len(first) != 32 {
		t.Errorf("QuickHash length = %d, want 32", len(first))
	}
	if first != QuickHash("input-a") {
		t.Error("QuickHash is not deterministic")
	}
	if first == QuickHash("input-b") {
		t.Error("different inputs produced the same QuickHash")
	}
}
