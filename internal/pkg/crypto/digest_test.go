package crypto

import "testing"

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "known digest",
			password: "password",
			want:     "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		},
		{
			name:     "abc",
			password: "abc",
			want:     "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashPassword(tt.password); got != tt.want {
				t.Errorf("HashPassword(%q): expected %s, got %s", tt.password, tt.want, got)
			}
		})
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	a := HashPassword("hunter2")
	b := HashPassword("hunter2")
	if a != b {
		t.Errorf("digest must be deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}

	if HashPassword("hunter2") == HashPassword("hunter3") {
		t.Error("different passwords must produce different digests")
	}
}
