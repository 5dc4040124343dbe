package algo

import (
	"errors"
	"testing"
)

func TestProfileOfReferenceTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   ID
		want Profile
	}{
		{id: Qubit, want: Profile{Stratum: 256, One: 256, Share: 256}},
		{id: Fresh, want: Profile{Stratum: 1, One: 256, Share: 256}},
		{id: GrsMyr, want: Profile{Stratum: 1, One: 1, Share: 1}},
		{id: NeoScrypt, want: Profile{Stratum: 1, One: 65536, Share: 65536}},
		{id: Lyra2RE, want: Profile{Stratum: 1, One: 128, Share: 128}},
		{id: BSTYYEScrypt, want: Profile{Stratum: 1, One: 65536, Share: 65536}},
	}

	for _, tc := range tests {
		t.Run(string(tc.id), func(t *testing.T) {
			got, err := ProfileOf(tc.id)
			if err != nil {
				t.Fatalf("ProfileOf(%q) error = %v", tc.id, err)
			}
			if got != tc.want {
				t.Fatalf("ProfileOf(%q) = %+v, want %+v", tc.id, got, tc.want)
			}
		})
	}

	if len(IDs()) != len(tests) {
		t.Fatalf("table has %d algorithms, want %d", len(IDs()), len(tests))
	}
}

func TestProfileOfUnknown(t *testing.T) {
	t.Parallel()

	for _, id := range []ID{"", "scrypt", "QUBIT", "neoscrypt"} {
		_, err := ProfileOf(id)
		if !errors.Is(err, ErrUnknown) {
			t.Fatalf("ProfileOf(%q) error = %v, want ErrUnknown", id, err)
		}
		if Known(id) {
			t.Fatalf("Known(%q) = true", id)
		}
	}
}

func TestProfileOfReturnsCopy(t *testing.T) {
	t.Parallel()

	p, err := ProfileOf(Qubit)
	if err != nil {
		t.Fatal(err)
	}
	p.Stratum = 1

	again, _ := ProfileOf(Qubit)
	if again.Stratum != 256 {
		t.Fatalf("table mutated through returned profile: stratum = %d", again.Stratum)
	}
}

func TestDiffModeOnlyForNeoScrypt(t *testing.T) {
	t.Parallel()

	withMode := 0
	for _, id := range IDs() {
		mode, ok := DiffModeOf(id)
		if !ok {
			continue
		}
		withMode++
		if id != NeoScrypt || mode != "neoScrypt" {
			t.Fatalf("DiffModeOf(%q) = %q, want only neoScrypt to carry a mode", id, mode)
		}
	}
	if withMode != 1 {
		t.Fatalf("algorithms with a diff mode = %d, want 1", withMode)
	}
	if _, ok := DiffModeOf("bogus"); ok {
		t.Fatal("DiffModeOf(bogus) reported a mode")
	}
}

func TestPreferredImpl(t *testing.T) {
	t.Parallel()

	impl, err := PreferredImpl(Qubit)
	if err != nil || impl != "fiveSteps" {
		t.Fatalf("PreferredImpl(qubit) = %q, %v", impl, err)
	}
	if _, err := PreferredImpl("bogus"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("PreferredImpl(bogus) error = %v, want ErrUnknown", err)
	}
}
