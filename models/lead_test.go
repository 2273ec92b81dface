package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadApplyDefaults(t *testing.T) {
	lead := Lead{Name: "Asha Patel", Phone: "+919876543210"}
	lead.ApplyDefaults()

	assert.Equal(t, SourceManual, lead.Source)
	assert.Equal(t, StageNew, lead.Stage)
	assert.Equal(t, PriorityWarm, lead.Priority)
	assert.Equal(t, "active", lead.Status)
}

func TestLeadApplyDefaultsKeepsExplicitValues(t *testing.T) {
	lead := Lead{
		Name:     "Rohan Mehta",
		Source:   SourceMetaAds,
		Stage:    StageQualified,
		Priority: PriorityHot,
	}
	lead.ApplyDefaults()

	assert.Equal(t, SourceMetaAds, lead.Source)
	assert.Equal(t, StageQualified, lead.Stage)
	assert.Equal(t, PriorityHot, lead.Priority)
}

func TestIsValidStage(t *testing.T) {
	for _, stage := range []string{"new", "qualified", "proposal", "negotiation", "won", "lost"} {
		assert.True(t, IsValidStage(stage), stage)
	}
	assert.False(t, IsValidStage("closed"))
	assert.False(t, IsValidStage(""))
}

func TestIsValidPriority(t *testing.T) {
	for _, priority := range []string{"hot", "warm", "cold"} {
		assert.True(t, IsValidPriority(priority), priority)
	}
	assert.False(t, IsValidPriority("urgent"))
	assert.False(t, IsValidPriority(""))
}

func TestFollowUpApplyDefaults(t *testing.T) {
	f := FollowUp{LeadID: "abc"}
	f.ApplyDefaults()

	assert.Equal(t, FollowUpPending, f.Status)
	assert.Equal(t, FollowUpCall, f.Type)
	assert.Equal(t, ReasonOther, f.Reason)
}

func TestMeetingApplyDefaults(t *testing.T) {
	m := Meeting{Title: "Site visit"}
	m.ApplyDefaults()

	assert.Equal(t, MeetingScheduled, m.Status)
	assert.Equal(t, 30, m.DurationMinutes)

	m2 := Meeting{Title: "Long visit", DurationMinutes: 90, Status: MeetingCompleted}
	m2.ApplyDefaults()
	assert.Equal(t, MeetingCompleted, m2.Status)
	assert.Equal(t, 90, m2.DurationMinutes)
}
