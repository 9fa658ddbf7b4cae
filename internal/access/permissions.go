// Package access implements the authorization and rate limiting layer that
// gates paid features by subscription tier: a static capability table, a
// tier resolver, a pure authorization gate and a fixed-window rate limiter.
package access

import (
	"sort"

	"github.com/attune-labs/attune/internal/domain/user"
)

// Capability names for gated features
const (
	CapAIChat            = "ai_chat"
	CapUnlimitedAIChat   = "unlimited_ai_chat"
	CapJournalAnalysis   = "journal_analysis"
	CapPracticeScenarios = "practice_scenarios"
	CapPriorityBooking   = "priority_booking"
	CapSOSBooking        = "sos_booking"
	CapCommunityPost     = "community_post"
)

// PermissionTable maps capability names to the set of tiers allowed to use
// them. Defined once at startup and never mutated afterwards.
type PermissionTable struct {
	caps map[string]map[string]struct{}
}

// NewPermissionTable builds a table from capability → allowed tiers
func NewPermissionTable(defs map[string][]string) *PermissionTable {
	caps := make(map[string]map[string]struct{}, len(defs))
	for name, tiers := range defs {
		set := make(map[string]struct{}, len(tiers))
		for _, t := range tiers {
			set[t] = struct{}{}
		}
		caps[name] = set
	}
	return &PermissionTable{caps: caps}
}

// DefaultPermissions returns the product's capability table
func DefaultPermissions() *PermissionTable {
	return NewPermissionTable(map[string][]string{
		CapAIChat:            {user.TierExplorer, user.TierGrowth, user.TierTransformation},
		CapUnlimitedAIChat:   {user.TierTransformation},
		CapJournalAnalysis:   {user.TierGrowth, user.TierTransformation},
		CapPracticeScenarios: {user.TierGrowth, user.TierTransformation},
		CapPriorityBooking:   {user.TierGrowth, user.TierTransformation},
		CapSOSBooking:        {user.TierTransformation},
		CapCommunityPost:     {user.TierExplorer, user.TierGrowth, user.TierTransformation},
	})
}

// Known reports whether the capability exists in the table
func (t *PermissionTable) Known(capability string) bool {
	_, ok := t.caps[capability]
	return ok
}

// Allows reports whether the tier may use the capability. Unknown
// capabilities are never allowed.
func (t *PermissionTable) Allows(capability, tier string) bool {
	set, ok := t.caps[capability]
	if !ok {
		return false
	}
	_, ok = set[tier]
	return ok
}

// AllowedTiers returns the tiers permitted for a capability
func (t *PermissionTable) AllowedTiers(capability string) []string {
	set, ok := t.caps[capability]
	if !ok {
		return nil
	}
	tiers := make([]string, 0, len(set))
	for tier := range set {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	return tiers
}

// Capabilities returns all capability names in sorted order
func (t *PermissionTable) Capabilities() []string {
	names := make([]string, 0, len(t.caps))
	for name := range t.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
