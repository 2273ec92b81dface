package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate-crm/models"
)

const dateLayout = "2006-01-02"

// startOfDay returns local midnight of t's calendar day
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// statsWindowStart returns the fetch window for a days-long series: local
// midnight of the oldest bucketed day. Bucketing compares local date
// strings, so the window must open at local midnight, not UTC midnight.
func statsWindowStart(now time.Time, days int) time.Time {
	return startOfDay(now.AddDate(0, 0, -(days - 1)))
}

// DailyCallerStat is one calendar-day bucket of a caller's activity
type DailyCallerStat struct {
	Date               string `json:"date"`
	CallsCount         int    `json:"calls_count"`
	TalkTimeSeconds    int    `json:"talk_time_seconds"`
	FollowUpsCompleted int    `json:"followups_completed"`
}

// ReportDailyStat is one calendar-day bucket of company-wide activity
type ReportDailyStat struct {
	Date       string `json:"date"`
	LeadsCount int    `json:"leads_count"`
	CallsCount int    `json:"calls_count"`
	WonCount   int    `json:"won_count"`
}

// BucketCallerDays reduces a caller's call logs and completed follow-ups
// into exactly `days` calendar-day buckets ending today, oldest first.
// Bucketing matches on local date-string equality.
func BucketCallerDays(logs []models.CallLog, followUps []models.FollowUp, days int, now time.Time) []DailyCallerStat {
	if days <= 0 {
		days = 7
	}

	stats := make([]DailyCallerStat, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format(dateLayout)
		stats[i] = DailyCallerStat{Date: date}
		index[date] = i
	}

	for _, log := range logs {
		if i, ok := index[log.CreatedAt.Format(dateLayout)]; ok {
			stats[i].CallsCount++
			stats[i].TalkTimeSeconds += log.DurationSeconds
		}
	}

	for _, f := range followUps {
		if f.Status != models.FollowUpCompleted || f.CompletedAt == nil {
			continue
		}
		if i, ok := index[f.CompletedAt.Format(dateLayout)]; ok {
			stats[i].FollowUpsCompleted++
		}
	}

	return stats
}

// BucketReportDays reduces leads and call logs into `days` calendar-day
// buckets ending today, oldest first
func BucketReportDays(leads []models.Lead, logs []models.CallLog, days int, now time.Time) []ReportDailyStat {
	if days <= 0 {
		days = 30
	}

	stats := make([]ReportDailyStat, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format(dateLayout)
		stats[i] = ReportDailyStat{Date: date}
		index[date] = i
	}

	for _, lead := range leads {
		if i, ok := index[lead.CreatedAt.Format(dateLayout)]; ok {
			stats[i].LeadsCount++
		}
		if lead.Stage == models.StageWon {
			if i, ok := index[lead.UpdatedAt.Format(dateLayout)]; ok {
				stats[i].WonCount++
			}
		}
	}

	for _, log := range logs {
		if i, ok := index[log.CreatedAt.Format(dateLayout)]; ok {
			stats[i].CallsCount++
		}
	}

	return stats
}

// getCallerLeadIDs lists the ids of the leads assigned to one caller
func getCallerLeadIDs(ctx context.Context, callerID string) ([]string, error) {
	collection := database.Collection("leads")

	cursor, err := collection.Find(ctx,
		bson.M{"assigned_caller": callerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID.Hex())
	}
	return ids, nil
}

// completedFollowUpFilter matches follow-ups completed inside the window
// on the given leads. FollowUp carries no caller field; attribution goes
// through the caller's assigned leads.
func completedFollowUpFilter(leadIDs []string, since time.Time) bson.M {
	return bson.M{
		"lead_id":      bson.M{"$in": leadIDs},
		"status":       models.FollowUpCompleted,
		"completed_at": bson.M{"$gte": since},
	}
}

// GetCallerDailyStats returns per-day stats for one caller over the last
// `days` calendar days
func GetCallerDailyStats(ctx context.Context, callerID string, days int) ([]DailyCallerStat, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	since := statsWindowStart(now, days)

	logs, err := GetCallLogsSince(ctx, callerID, since)
	if err != nil {
		return nil, err
	}

	leadIDs, err := getCallerLeadIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var followUps []models.FollowUp
	if len(leadIDs) > 0 {
		followupsCollection := database.Collection("followups")
		cursor, err := followupsCollection.Find(ctx, completedFollowUpFilter(leadIDs, since))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		if err := cursor.All(ctx, &followUps); err != nil {
			return nil, err
		}
	}

	return BucketCallerDays(logs, followUps, days, now), nil
}

// GetCallerTodayStats returns today's bucket plus the caller's open workload
func GetCallerTodayStats(ctx context.Context, callerID string) (map[string]interface{}, error) {
	daily, err := GetCallerDailyStats(ctx, callerID, 1)
	if err != nil {
		return nil, err
	}

	leadsCollection := database.Collection("leads")
	assignedLeads, err := leadsCollection.CountDocuments(ctx, bson.M{"assigned_caller": callerID})
	if err != nil {
		return nil, err
	}

	dayStart := startOfDay(time.Now())
	leadIDs, err := getCallerLeadIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var dueToday int64
	if len(leadIDs) > 0 {
		followupsCollection := database.Collection("followups")
		dueToday, err = followupsCollection.CountDocuments(ctx, bson.M{
			"lead_id":       bson.M{"$in": leadIDs},
			"status":        models.FollowUpPending,
			"scheduled_for": bson.M{"$gte": dayStart, "$lt": dayStart.Add(24 * time.Hour)},
		})
		if err != nil {
			return nil, err
		}
	}

	today := daily[len(daily)-1]
	return map[string]interface{}{
		"date":                today.Date,
		"calls_count":         today.CallsCount,
		"talk_time_seconds":   today.TalkTimeSeconds,
		"followups_completed": today.FollowUpsCompleted,
		"assigned_leads":      assignedLeads,
		"followups_due_today": dueToday,
	}, nil
}

// GetDashboardStats computes the aggregate counts shown on the dashboard
func GetDashboardStats(ctx context.Context) (map[string]interface{}, error) {
	leadsCollection := database.Collection("leads")

	totalLeads, err := leadsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	byStage, err := groupCounts(ctx, "leads", "$stage")
	if err != nil {
		return nil, err
	}
	byPriority, err := groupCounts(ctx, "leads", "$priority")
	if err != nil {
		return nil, err
	}
	bySource, err := groupCounts(ctx, "leads", "$source")
	if err != nil {
		return nil, err
	}

	wonCount := byStage[string(models.StageWon)]
	conversionRate := 0.0
	if totalLeads > 0 {
		conversionRate = float64(wonCount) / float64(totalLeads)
	}

	// Pipeline value of open leads
	pipeline := []bson.M{
		{"$match": bson.M{"stage": bson.M{"$nin": []string{string(models.StageWon), string(models.StageLost)}}}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$value"}}},
	}
	cursor, err := leadsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	pipelineValue := 0.0
	var agg []bson.M
	if err := cursor.All(ctx, &agg); err != nil {
		return nil, err
	}
	if len(agg) > 0 {
		switch v := agg[0]["total"].(type) {
		case float64:
			pipelineValue = v
		case int32:
			pipelineValue = float64(v)
		case int64:
			pipelineValue = float64(v)
		}
	}

	dayStart := startOfDay(time.Now())

	callLogsCollection := database.Collection("call_logs")
	callsToday, err := callLogsCollection.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": dayStart},
	})
	if err != nil {
		return nil, err
	}

	followupsCollection := database.Collection("followups")
	followupsDueToday, err := followupsCollection.CountDocuments(ctx, bson.M{
		"status":        models.FollowUpPending,
		"scheduled_for": bson.M{"$gte": dayStart, "$lt": dayStart.Add(24 * time.Hour)},
	})
	if err != nil {
		return nil, err
	}

	callersCollection := database.Collection("callers")
	activeCallers, err := callersCollection.CountDocuments(ctx, bson.M{"status": "active"})
	if err != nil {
		return nil, err
	}

	brokersCollection := database.Collection("brokers")
	totalBrokers, err := brokersCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	meetingsCollection := database.Collection("meetings")
	upcomingMeetings, err := meetingsCollection.CountDocuments(ctx, bson.M{
		"status":       models.MeetingScheduled,
		"scheduled_at": bson.M{"$gte": time.Now()},
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_leads":         totalLeads,
		"leads_by_stage":      byStage,
		"leads_by_priority":   byPriority,
		"leads_by_source":     bySource,
		"conversion_rate":     conversionRate,
		"pipeline_value":      pipelineValue,
		"calls_today":         callsToday,
		"followups_due_today": followupsDueToday,
		"active_callers":      activeCallers,
		"total_brokers":       totalBrokers,
		"upcoming_meetings":   upcomingMeetings,
	}, nil
}

// GetReportStats returns company-wide daily buckets for the last `days` days
func GetReportStats(ctx context.Context, days int) ([]ReportDailyStat, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	since := statsWindowStart(now, days)

	leadsCollection := database.Collection("leads")
	leadCursor, err := leadsCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"created_at": bson.M{"$gte": since}},
			{"stage": models.StageWon, "updated_at": bson.M{"$gte": since}},
		},
	}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer leadCursor.Close(ctx)

	var leads []models.Lead
	if err := leadCursor.All(ctx, &leads); err != nil {
		return nil, err
	}

	callLogsCollection := database.Collection("call_logs")
	logCursor, err := callLogsCollection.Find(ctx, bson.M{
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, err
	}
	defer logCursor.Close(ctx)

	var logs []models.CallLog
	if err := logCursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return BucketReportDays(leads, logs, days, now), nil
}

// groupCounts runs a $group count aggregation over one field
func groupCounts(ctx context.Context, collectionName, field string) (map[string]int64, error) {
	collection := database.Collection(collectionName)

	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.ID] = r.Count
	}
	return counts, nil
}
