package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpportunityStatusValid(t *testing.T) {
	for _, s := range []OpportunityStatus{StatusDiscovered, StatusContacted, StatusPending, StatusSecured, StatusRejected} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OpportunityStatus("archived").Valid())
	assert.False(t, OpportunityStatus("").Valid())
}

func TestOpportunityStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OpportunityStatus
		to      OpportunityStatus
		allowed bool
	}{
		{StatusDiscovered, StatusContacted, true},
		{StatusDiscovered, StatusPending, true},
		{StatusDiscovered, StatusSecured, true},
		{StatusDiscovered, StatusRejected, true},
		{StatusDiscovered, StatusDiscovered, false},
		{StatusContacted, StatusPending, true},
		{StatusContacted, StatusSecured, true},
		{StatusContacted, StatusRejected, true},
		{StatusContacted, StatusDiscovered, false},
		{StatusPending, StatusContacted, true},
		{StatusPending, StatusSecured, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusDiscovered, false},
		{StatusSecured, StatusContacted, false},
		{StatusSecured, StatusRejected, false},
		{StatusRejected, StatusContacted, false},
		{StatusRejected, StatusSecured, false},
		{StatusContacted, OpportunityStatus("archived"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusSecured.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusDiscovered.Terminal())
	assert.False(t, StatusContacted.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestOpportunityTypeValid(t *testing.T) {
	for _, ot := range []OpportunityType{TypeGuestPost, TypeResourcePage, TypeBrokenLink, TypeDirectory, TypeForum} {
		assert.True(t, ot.Valid(), string(ot))
	}
	assert.False(t, OpportunityType("billboard").Valid())
}
