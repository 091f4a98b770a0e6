package git

import (
	"strings"
	"time"
)

// BranchPrefix starts every generated hotfix branch name.
const BranchPrefix = "hotfix-"

// branchTimeLayout is ISO-8601 to the second with every separator as "-".
const branchTimeLayout = "2006-01-02-15-04-05"

// HotfixBranchName returns the branch name for a run started at t.
// Example: 2025-07-30T14:30:45Z -> "hotfix-2025-07-30-14-30-45"
func HotfixBranchName(t time.Time) string {
	return BranchPrefix + t.UTC().Format(branchTimeLayout)
}

// ParseHotfixBranch reports whether name is a generated hotfix branch and
// returns the UTC time encoded in it.
func ParseHotfixBranch(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, BranchPrefix)
	if !ok || len(stamp) != len(branchTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(branchTimeLayout, stamp, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
