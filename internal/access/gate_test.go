package access

import (
	"errors"
	"testing"

	"github.com/attune-labs/attune/internal/domain/user"
)

func TestGate_AdminOverride(t *testing.T) {
	gate := NewGate(DefaultPermissions())

	tiers := []string{user.TierExplorer, user.TierGrowth, user.TierTransformation}
	for _, tier := range tiers {
		for _, cap := range gate.Table().Capabilities() {
			allowed, err := gate.Authorize(user.RoleAdmin, tier, cap)
			if err != nil {
				t.Errorf("Authorize(admin, %s, %s) error = %v", tier, cap, err)
			}
			if !allowed {
				t.Errorf("Authorize(admin, %s, %s) = false, want true", tier, cap)
			}
		}
	}
}

func TestGate_AdminOverrideUnknownCapability(t *testing.T) {
	gate := NewGate(DefaultPermissions())

	// Admin allows before the capability lookup happens
	allowed, err := gate.Authorize(user.RoleAdmin, user.TierExplorer, "does_not_exist")
	if err != nil {
		t.Errorf("Authorize() error = %v", err)
	}
	if !allowed {
		t.Error("Authorize(admin) = false for unknown capability, want true")
	}
}

func TestGate_TierMembership(t *testing.T) {
	gate := NewGate(DefaultPermissions())

	tests := []struct {
		name       string
		tier       string
		capability string
		want       bool
	}{
		{"explorer can chat", user.TierExplorer, CapAIChat, true},
		{"explorer cannot analyze journal", user.TierExplorer, CapJournalAnalysis, false},
		{"explorer cannot book sos", user.TierExplorer, CapSOSBooking, false},
		{"growth can analyze journal", user.TierGrowth, CapJournalAnalysis, true},
		{"growth can book priority", user.TierGrowth, CapPriorityBooking, true},
		{"growth cannot book sos", user.TierGrowth, CapSOSBooking, false},
		{"growth has no unlimited chat", user.TierGrowth, CapUnlimitedAIChat, false},
		{"transformation can book sos", user.TierTransformation, CapSOSBooking, true},
		{"transformation has unlimited chat", user.TierTransformation, CapUnlimitedAIChat, true},
		{"all tiers can post", user.TierExplorer, CapCommunityPost, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := gate.Authorize(user.RoleUser, tt.tier, tt.capability)
			if err != nil {
				t.Fatalf("Authorize() error = %v", err)
			}
			if allowed != tt.want {
				t.Errorf("Authorize(user, %s, %s) = %v, want %v", tt.tier, tt.capability, allowed, tt.want)
			}
		})
	}
}

func TestGate_UnknownCapabilityFailsClosed(t *testing.T) {
	gate := NewGate(DefaultPermissions())

	allowed, err := gate.Authorize(user.RoleUser, user.TierTransformation, "no_such_feature")
	if allowed {
		t.Error("Authorize() = true for unknown capability, want false")
	}
	if err == nil {
		t.Fatal("Authorize() error = nil for unknown capability")
	}

	var unknown *ErrUnknownCapability
	if !errors.As(err, &unknown) {
		t.Fatalf("Authorize() error = %T, want *ErrUnknownCapability", err)
	}
	if unknown.Capability != "no_such_feature" {
		t.Errorf("error capability = %q, want %q", unknown.Capability, "no_such_feature")
	}
}

func TestPermissionTable_NonEmptyTierSets(t *testing.T) {
	table := DefaultPermissions()
	for _, cap := range table.Capabilities() {
		if len(table.AllowedTiers(cap)) == 0 {
			t.Errorf("capability %q has an empty tier set", cap)
		}
	}
}
