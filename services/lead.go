package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate-crm/models"
)

// LeadFilter holds the optional list filters for leads
type LeadFilter struct {
	Stage          string
	Priority       string
	Source         string
	AssignedCaller string
	AssignedBroker string
	Search         string
}

// CreateLead inserts a new lead, filling schema defaults and the
// normalized phone used for duplicate detection
func CreateLead(ctx context.Context, lead *models.Lead) error {
	collection := database.Collection("leads")

	lead.ApplyDefaults()
	lead.NormalizedPhone = NormalizePhone(lead.Phone)

	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	result, err := collection.InsertOne(ctx, lead)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid
	}

	slog.Info("Lead created",
		"leadID", lead.ID.Hex(),
		"source", lead.Source,
		"stage", lead.Stage)

	return nil
}

// GetLead retrieves a lead by its hex id. Returns (nil, nil) when not found
// or when the id is not a valid ObjectID.
func GetLead(ctx context.Context, id string) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("leads")

	var lead models.Lead
	err = collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &lead, nil
}

// GetLeadByNormalizedPhone finds an active lead by normalized phone number
func GetLeadByNormalizedPhone(ctx context.Context, phone string) (*models.Lead, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, nil
	}

	collection := database.Collection("leads")

	var lead models.Lead
	err := collection.FindOne(ctx, bson.M{"normalized_phone": normalized}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &lead, nil
}

// ListLeads retrieves leads with filtering and pagination, newest first
func ListLeads(ctx context.Context, filter LeadFilter, limit, skip int) ([]models.Lead, int64, error) {
	collection := database.Collection("leads")

	query := bson.M{}
	if filter.Stage != "" {
		query["stage"] = filter.Stage
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}
	if filter.AssignedCaller != "" {
		query["assigned_caller"] = filter.AssignedCaller
	}
	if filter.AssignedBroker != "" {
		query["assigned_broker"] = filter.AssignedBroker
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"email": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"city": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"phone": bson.M{"$regex": filter.Search}},
		}
	}

	totalCount, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}

	return leads, totalCount, nil
}

// UpdateLead applies a partial update and returns the post-update document
func UpdateLead(ctx context.Context, id string, fields bson.M) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	collection := database.Collection("leads")

	fields["updated_at"] = time.Now()
	if phone, ok := fields["phone"].(string); ok {
		fields["normalized_phone"] = NormalizePhone(phone)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lead models.Lead
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.Error("Failed to update lead", "leadID", id, "error", err)
		return nil, err
	}

	return &lead, nil
}

// AppendLeadNote appends a note to the lead's free-text notes field
func AppendLeadNote(ctx context.Context, id, note string) (*models.Lead, error) {
	lead, err := GetLead(ctx, id)
	if err != nil || lead == nil {
		return lead, err
	}

	notes := lead.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04"), note)

	return UpdateLead(ctx, id, bson.M{"notes": notes})
}

// DeleteLead removes a lead document. Assigned follow-ups, meetings and
// activities are left in place (no cascade).
func DeleteLead(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	collection := database.Collection("leads")

	result, err := collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

// MergeLeads merges duplicate leads onto a primary one: notes are
// concatenated, empty primary fields are filled from duplicates, and the
// duplicates are deleted. Returns the merged lead and the number of
// duplicates removed.
func MergeLeads(ctx context.Context, primaryID string, duplicateIDs []string, actor string) (*models.Lead, int, error) {
	primary, err := GetLead(ctx, primaryID)
	if err != nil {
		return nil, 0, err
	}
	if primary == nil {
		return nil, 0, nil
	}

	collection := database.Collection("leads")

	merged := 0
	notes := primary.Notes
	fields := bson.M{}

	for _, dupID := range duplicateIDs {
		if dupID == primaryID {
			continue
		}

		dup, err := GetLead(ctx, dupID)
		if err != nil {
			return nil, merged, err
		}
		if dup == nil {
			continue
		}

		if dup.Notes != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += dup.Notes
		}
		if primary.Email == "" && dup.Email != "" {
			primary.Email = dup.Email
			fields["email"] = dup.Email
		}
		if primary.City == "" && dup.City != "" {
			primary.City = dup.City
			fields["city"] = dup.City
		}
		if primary.Value == 0 && dup.Value != 0 {
			primary.Value = dup.Value
			fields["value"] = dup.Value
		}
		if primary.AssignedCaller == "" && dup.AssignedCaller != "" {
			primary.AssignedCaller = dup.AssignedCaller
			fields["assigned_caller"] = dup.AssignedCaller
		}
		if primary.AssignedBroker == "" && dup.AssignedBroker != "" {
			primary.AssignedBroker = dup.AssignedBroker
			fields["assigned_broker"] = dup.AssignedBroker
		}

		oid, _ := primitive.ObjectIDFromHex(dupID)
		if _, err := collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			slog.Error("Failed to delete duplicate lead", "leadID", dupID, "error", err)
			continue
		}
		merged++
	}

	if notes != primary.Notes {
		fields["notes"] = notes
	}

	result := primary
	if len(fields) > 0 {
		result, err = UpdateLead(ctx, primaryID, fields)
		if err != nil {
			return nil, merged, err
		}
	}

	LogActivity(ctx, &models.Activity{
		LeadID:      primaryID,
		Actor:       actor,
		Type:        models.ActivityLeadMerged,
		Description: fmt.Sprintf("Merged %d duplicate leads into %s", merged, result.Name),
		Metadata:    map[string]interface{}{"duplicate_ids": strings.Join(duplicateIDs, ",")},
	})

	slog.Info("Leads merged", "primaryID", primaryID, "merged", merged)

	return result, merged, nil
}

// BulkAssignLeads assigns a caller and/or broker to a set of leads
func BulkAssignLeads(ctx context.Context, leadIDs []string, callerID, brokerID string) (int64, error) {
	collection := database.Collection("leads")

	oids := make([]primitive.ObjectID, 0, len(leadIDs))
	for _, id := range leadIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}

	fields := bson.M{"updated_at": time.Now()}
	if callerID != "" {
		fields["assigned_caller"] = callerID
	}
	if brokerID != "" {
		fields["assigned_broker"] = brokerID
	}

	result, err := collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}

	slog.Info("Leads bulk assigned",
		"count", result.ModifiedCount,
		"callerID", callerID,
		"brokerID", brokerID)

	return result.ModifiedCount, nil
}
