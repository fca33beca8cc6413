// Package hashverify implements component E: the two-level hash chain that
// checks every file a Release manifest promises, and transitively every
// .deb a Packages index promises, against the digests declared for it,
// under one of six verification-strictness modes.
package hashverify

import "fmt"

// Mode selects how missing files and digest mismatches are handled,
// separately for "important" files (Packages indices and .deb archives)
// and everything else. See the policy table in policy.go.
type Mode string

const (
	ModeStrict                           Mode = "strict"
	ModeRaiseImportantOnly               Mode = "raise_important_only"
	ModeIgnoreMissing                    Mode = "ignore_missing"
	ModeIgnoreMissingNonImportant        Mode = "ignore_missing_non_important"
	ModeVerifyImportantOnly              Mode = "verify_important_only"
	ModeVerifyImportantOnlyIgnoreMissing Mode = "verify_important_only_ignore_missing"
)

// ParseMode validates a mode string, rejecting anything not in the table.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeStrict, ModeRaiseImportantOnly, ModeIgnoreMissing,
		ModeIgnoreMissingNonImportant, ModeVerifyImportantOnly, ModeVerifyImportantOnlyIgnoreMissing:
		return m, nil
	default:
		return "", fmt.Errorf("hashverify: unknown verification mode %q", s)
	}
}

// importantOnly reports whether mode restricts verification to important
// files, leaving everything else formally "not verified".
func (m Mode) importantOnly() bool {
	return m == ModeVerifyImportantOnly || m == ModeVerifyImportantOnlyIgnoreMissing
}
