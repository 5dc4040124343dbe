// Package algo holds the static reference data for the mining algorithms the
// wizard can configure: difficulty multiplier profiles, the nonstandard
// difficulty mode, and the preferred kernel implementation for each.
package algo

import (
	"errors"
	"fmt"
)

// ID names a mining algorithm as the controller knows it.
type ID string

const (
	Qubit        ID = "qubit"
	Fresh        ID = "fresh"
	GrsMyr       ID = "grsmyr"
	NeoScrypt    ID = "neoScrypt"
	Lyra2RE      ID = "lyra2RE"
	BSTYYEScrypt ID = "BSTY_YEScrypt"
)

// ErrUnknown is returned for any id outside the reference table. The UI only
// offers known ids, so callers should treat it as an integrity violation.
var ErrUnknown = errors.New("unrecognized algorithm")

// Profile holds the difficulty multipliers of an algorithm.
//
// Stratum multiplies the value received by a stratum set_difficulty
// notification. Pool operators frequently deviate from it, so it is only a
// default. One multiplies TRUE_DIFF_ONE to form the target denominator. Share
// scales the value of an accepted share.
type Profile struct {
	Stratum int `json:"stratum"`
	One     int `json:"one"`
	Share   int `json:"share"`
}

// DiffMode names a nonstandard difficulty computation scheme.
type DiffMode string

// Info is one row of the reference table.
type Info struct {
	ID       ID
	Profile  Profile
	DiffMode DiffMode
	Impl     string
}

// table is ordered the way algorithms are offered to the user.
var table = []Info{
	{ID: Qubit, Profile: Profile{Stratum: 256, One: 256, Share: 256}, Impl: "fiveSteps"},
	{ID: Fresh, Profile: Profile{Stratum: 1, One: 256, Share: 256}, Impl: "warm"},
	{ID: GrsMyr, Profile: Profile{Stratum: 1, One: 1, Share: 1}, Impl: "monolithic"},
	{ID: NeoScrypt, Profile: Profile{Stratum: 1, One: 65536, Share: 65536}, DiffMode: "neoScrypt", Impl: "smooth"},
	{ID: Lyra2RE, Profile: Profile{Stratum: 1, One: 128, Share: 128}, Impl: "indirected"},
	{ID: BSTYYEScrypt, Profile: Profile{Stratum: 1, One: 65536, Share: 65536}, Impl: "sequential"},
}

// All returns a copy of the reference table in presentation order.
func All() []Info {
	out := make([]Info, len(table))
	copy(out, table)
	return out
}

// IDs returns the known algorithm ids in presentation order.
func IDs() []ID {
	out := make([]ID, 0, len(table))
	for _, info := range table {
		out = append(out, info.ID)
	}
	return out
}

// Known reports whether id is in the reference table.
func Known(id ID) bool {
	_, err := lookup(id)
	return err == nil
}

// ProfileOf returns the reference difficulty profile of id. The returned value
// is a copy; callers may modify it without affecting the table.
func ProfileOf(id ID) (Profile, error) {
	info, err := lookup(id)
	if err != nil {
		return Profile{}, err
	}
	return info.Profile, nil
}

// DiffModeOf returns the nonstandard difficulty mode of id, if it has one.
func DiffModeOf(id ID) (DiffMode, bool) {
	info, err := lookup(id)
	if err != nil || info.DiffMode == "" {
		return "", false
	}
	return info.DiffMode, true
}

// PreferredImpl returns the implementation the wizard selects for id.
func PreferredImpl(id ID) (string, error) {
	info, err := lookup(id)
	if err != nil {
		return "", err
	}
	return info.Impl, nil
}

func lookup(id ID) (Info, error) {
	for _, info := range table {
		if info.ID == id {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrUnknown, string(id))
}
