// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/doracare/murshid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// End reasons recorded when a session closes.
const (
	EndedByLogout       = "logout"
	EndedByInactivity   = "inactive"
	EndedByUnauthorized = "unauthorized" // service rejected the token
)

// Store manages the dashboard-local record of sign-ins. The tracking
// service owns the tokens themselves; we only keep a digest so a
// session can be closed from either side without ever storing the
// credential.
type Store struct {
	c *mongo.Collection
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

// DigestToken returns the hex SHA-256 of a service token. This is the
// only form of the token ever written to the database.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_digest", Value: 1}},
			Options: options.Index().SetName("idx_sessions_digest"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_user"),
		},
		{
			Keys:    bson.D{{Key: "ended_at", Value: 1}, {Key: "last_seen_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_open"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Open records a fresh sign-in. Any session still open for the same
// user is closed first so one user maps to one live record.
func (s *Store) Open(ctx context.Context, userID, userName, role, token string) (models.SessionRecord, error) {
	now := time.Now().UTC()

	_, _ = s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "ended_at": nil},
		bson.M{"$set": bson.M{"ended_at": now, "end_reason": EndedByInactivity}},
	)

	rec := models.SessionRecord{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		UserName:    userName,
		Role:        role,
		TokenDigest: DigestToken(token),
		StartedAt:   now,
		LastSeenAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.SessionRecord{}, err
	}
	return rec, nil
}

// Touch bumps last_seen_at on the open session matching the token.
func (s *Store) Touch(ctx context.Context, token string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"token_digest": DigestToken(token), "ended_at": nil},
		bson.M{"$set": bson.M{"last_seen_at": time.Now().UTC()}},
	)
	return err
}

// CloseByToken ends the open session matching the token.
func (s *Store) CloseByToken(ctx context.Context, token, reason string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"token_digest": DigestToken(token), "ended_at": nil},
		bson.M{"$set": bson.M{"ended_at": now, "end_reason": reason}},
	)
	return err
}

// CloseInactive ends open sessions idle longer than the threshold.
// Called by the background cleanup worker.
func (s *Store) CloseInactive(ctx context.Context, inactiveThreshold time.Duration) (int64, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-inactiveThreshold)

	result, err := s.c.UpdateMany(ctx,
		bson.M{
			"ended_at":     nil,
			"last_seen_at": bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{"ended_at": now, "end_reason": EndedByInactivity}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// GetByToken returns the open session matching the token, if any.
func (s *Store) GetByToken(ctx context.Context, token string) (models.SessionRecord, error) {
	var rec models.SessionRecord
	err := s.c.FindOne(ctx,
		bson.M{"token_digest": DigestToken(token), "ended_at": nil},
	).Decode(&rec)
	return rec, err
}

// HistoryByUser returns a user's recent sign-ins, newest first.
func (s *Store) HistoryByUser(ctx context.Context, userID string, limit int64) ([]models.SessionRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.SessionRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// CountOpen counts sessions that have not ended and were seen within
// the threshold; the admin overview shows this as "moderators online".
func (s *Store) CountOpen(ctx context.Context, activeThreshold time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-activeThreshold)
	return s.c.CountDocuments(ctx, bson.M{
		"ended_at":     nil,
		"last_seen_at": bson.M{"$gte": cutoff},
	})
}
