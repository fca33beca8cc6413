package hashverify

import (
	"path"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aptveritas/reposcan/pkg/integrity"
)

type failureKind int

const (
	failureMissing failureKind = iota
	failureBadHash
)

type action int

const (
	actionRaise action = iota
	actionWarn
	actionSkip
	actionNotVerified
)

// cell holds one mode's row of the policy table: the action for each of the
// four (failure kind, important) combinations.
type cell struct {
	missingImportant    action
	missingNonImportant action
	badHashImportant    action
	badHashNonImportant action
}

var policyTable = map[Mode]cell{
	ModeStrict:                           {actionRaise, actionRaise, actionRaise, actionRaise},
	ModeRaiseImportantOnly:               {actionRaise, actionWarn, actionRaise, actionWarn},
	ModeIgnoreMissing:                    {actionSkip, actionSkip, actionRaise, actionRaise},
	ModeIgnoreMissingNonImportant:        {actionRaise, actionSkip, actionRaise, actionRaise},
	ModeVerifyImportantOnly:              {actionRaise, actionNotVerified, actionRaise, actionNotVerified},
	ModeVerifyImportantOnlyIgnoreMissing: {actionSkip, actionNotVerified, actionRaise, actionNotVerified},
}

func policy(mode Mode, kind failureKind, important bool) action {
	c := policyTable[mode]
	switch {
	case kind == failureMissing && important:
		return c.missingImportant
	case kind == failureMissing && !important:
		return c.missingNonImportant
	case kind == failureBadHash && important:
		return c.badHashImportant
	default:
		return c.badHashNonImportant
	}
}

// dispatch applies mode's policy to a concrete finding, returning a non-nil
// error only when the mode says to raise. Warnings are logged and
// swallowed; skip and not-verified are silent, matching the "warnings are
// otherwise silent" rule.
func dispatch(mode Mode, kind failureKind, important bool, finding integrity.Error) error {
	switch policy(mode, kind, important) {
	case actionRaise:
		return finding
	case actionWarn:
		log.Warn().Err(finding).Msg("hashverify: policy downgraded failure to a warning")
		return nil
	default: // actionSkip, actionNotVerified
		return nil
	}
}

var packagesNamePattern = regexp.MustCompile(`^Packages(\..+)?$`)

// isImportant classifies a file by its basename, per the "important file"
// definition: Packages indices (in any compressed form), the gzip-compressed
// Sources index (Sources.gz), and .deb archives.
func isImportant(name string) bool {
	base := path.Base(name)
	if packagesNamePattern.MatchString(base) {
		return true
	}
	if base == "Sources.gz" {
		return true
	}
	return strings.HasSuffix(base, ".deb")
}
