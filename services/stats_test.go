package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"estate-crm/models"
)

func TestBucketCallerDaysExactCount(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	for _, days := range []int{1, 7, 30} {
		stats := BucketCallerDays(nil, nil, days, now)
		require.Len(t, stats, days)

		// oldest first, ending today
		assert.Equal(t, now.AddDate(0, 0, -(days-1)).Format("2006-01-02"), stats[0].Date)
		assert.Equal(t, "2026-03-15", stats[len(stats)-1].Date)
	}
}

func TestBucketCallerDaysCounts(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)

	logs := []models.CallLog{
		{CreatedAt: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), DurationSeconds: 120},
		{CreatedAt: time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC), DurationSeconds: 60},
		{CreatedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), DurationSeconds: 30},
		// outside the window
		{CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), DurationSeconds: 300},
	}

	completedAt := time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC)
	pendingAt := time.Date(2026, 3, 15, 16, 0, 0, 0, time.UTC)
	followUps := []models.FollowUp{
		{Status: models.FollowUpCompleted, CompletedAt: &completedAt},
		{Status: models.FollowUpPending, CompletedAt: &pendingAt},
	}

	stats := BucketCallerDays(logs, followUps, 7, now)
	require.Len(t, stats, 7)

	today := stats[6]
	assert.Equal(t, "2026-03-15", today.Date)
	assert.Equal(t, 2, today.CallsCount)
	assert.Equal(t, 180, today.TalkTimeSeconds)
	assert.Equal(t, 0, today.FollowUpsCompleted)

	yesterday := stats[5]
	assert.Equal(t, "2026-03-14", yesterday.Date)
	assert.Equal(t, 1, yesterday.CallsCount)
	assert.Equal(t, 30, yesterday.TalkTimeSeconds)
	assert.Equal(t, 1, yesterday.FollowUpsCompleted)

	// days with no activity still get a zero bucket
	assert.Equal(t, 0, stats[0].CallsCount)
	assert.Equal(t, 0, stats[0].TalkTimeSeconds)
}

func TestBucketCallerDaysMonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	stats := BucketCallerDays(nil, nil, 5, now)
	require.Len(t, stats, 5)

	dates := make([]string, len(stats))
	for i, s := range stats {
		dates[i] = s.Date
	}
	assert.Equal(t, []string{"2026-02-26", "2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, dates)
}

func TestBucketReportDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	leads := []models.Lead{
		{
			CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
			Stage:     models.StageWon,
		},
		{
			CreatedAt: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
			Stage:     models.StageNew,
		},
	}
	logs := []models.CallLog{
		{CreatedAt: time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)},
	}

	stats := BucketReportDays(leads, logs, 3, now)
	require.Len(t, stats, 3)

	assert.Equal(t, "2026-03-13", stats[0].Date)
	assert.Equal(t, 1, stats[0].CallsCount)
	assert.Equal(t, 0, stats[0].LeadsCount)

	assert.Equal(t, "2026-03-14", stats[1].Date)
	assert.Equal(t, 1, stats[1].LeadsCount)
	assert.Equal(t, 0, stats[1].WonCount)

	// won counts on the day the lead moved, not the day it was created
	assert.Equal(t, "2026-03-15", stats[2].Date)
	assert.Equal(t, 1, stats[2].LeadsCount)
	assert.Equal(t, 1, stats[2].WonCount)
}

func TestStatsWindowOpensAtLocalMidnight(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, ist)

	since := statsWindowStart(now, 7)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, ist).Unix(), since.Unix())

	// a call at 01:00 local on the oldest day lands inside both the fetch
	// window and the oldest bucket; a UTC-midnight window would exclude it
	call := models.CallLog{CreatedAt: time.Date(2026, 3, 9, 1, 0, 0, 0, ist)}
	assert.False(t, call.CreatedAt.Before(since))

	stats := BucketCallerDays([]models.CallLog{call}, nil, 7, now)
	require.Len(t, stats, 7)
	assert.Equal(t, 1, stats[0].CallsCount)
}

func TestStartOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	assert.Equal(t,
		time.Date(2026, 3, 15, 0, 0, 0, 0, ist).Unix(),
		startOfDay(time.Date(2026, 3, 15, 23, 59, 59, 0, ist)).Unix())
	assert.Equal(t,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		startOfDay(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCompletedFollowUpFilterScopesToCallerLeads(t *testing.T) {
	since := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	filter := completedFollowUpFilter([]string{"lead-a", "lead-b"}, since)

	assert.Equal(t, bson.M{"$in": []string{"lead-a", "lead-b"}}, filter["lead_id"])
	assert.Equal(t, models.FollowUpCompleted, filter["status"])
	assert.Equal(t, bson.M{"$gte": since}, filter["completed_at"])
}

func TestBucketCallerDaysOnlyCountsScopedFollowUps(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	// two callers each completed one follow-up today; only the follow-up
	// on this caller's lead reaches the bucketer
	mine := []models.FollowUp{
		{LeadID: "lead-a", Status: models.FollowUpCompleted, CompletedAt: &completedAt},
	}

	stats := BucketCallerDays(nil, mine, 7, now)
	require.Len(t, stats, 7)
	assert.Equal(t, 1, stats[6].FollowUpsCompleted)
}

func TestBucketReportDaysDefaultsOnInvalidDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	stats := BucketReportDays(nil, nil, 0, now)
	assert.Len(t, stats, 30)

	callerStats := BucketCallerDays(nil, nil, -4, now)
	assert.Len(t, callerStats, 7)
}
