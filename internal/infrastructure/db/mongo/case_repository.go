package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

const (
	collectionCases    = "cases"
	collectionTimeline = "case_timeline"
)

type CaseRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	timeline *mongo.Collection
}

func NewCaseRepository(db *mongo.Database) *CaseRepository {
	return &CaseRepository{
		db:       db,
		col:      db.Collection(collectionCases),
		timeline: db.Collection(collectionTimeline),
	}
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) (*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionCases)
	if err != nil {
		return nil, err
	}

	doc := *c
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateCaseNumber
		}
		return nil, fmt.Errorf("insert case: %w", err)
	}
	return &doc, nil
}

func (r *CaseRepository) FindByID(ctx context.Context, id int64) (*domain.Case, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CaseRepository) FindByCaseNumber(ctx context.Context, caseNumber string) (*domain.Case, error) {
	return r.findOne(ctx, bson.M{"case_number": caseNumber})
}

func (r *CaseRepository) findOne(ctx context.Context, filter bson.M) (*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Case
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}
	return &c, nil
}

func (r *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCaseNotFound
	}
	// Timeline entries go with the case file.
	if _, err := r.timeline.DeleteMany(ctx, bson.M{"case_id": id}); err != nil {
		return fmt.Errorf("delete case timeline: %w", err)
	}
	return nil
}

func (r *CaseRepository) List(ctx context.Context, filter ports.CaseFilter) ([]domain.Case, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.ClientID != 0 {
		query["client_id"] = filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Type != "" {
		query["case_type"] = string(filter.Type)
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count cases: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list cases: %w", err)
	}
	defer cur.Close(ctx)

	var cases []domain.Case
	if err := cur.All(ctx, &cases); err != nil {
		return nil, 0, fmt.Errorf("decode cases: %w", err)
	}
	return cases, total, nil
}

func (r *CaseRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *CaseRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{string(domain.CaseInProgress), string(domain.CaseWaitingCourt)}},
	})
}

func (r *CaseRepository) ListTimeline(ctx context.Context, caseID int64) ([]domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: -1}})
	cur, err := r.timeline.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.TimelineEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return events, nil
}

func (r *CaseRepository) AddTimelineEvent(ctx context.Context, ev *domain.TimelineEvent) (*domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionTimeline)
	if err != nil {
		return nil, err
	}

	doc := *ev
	doc.ID = id
	if _, err := r.timeline.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert timeline event: %w", err)
	}
	return &doc, nil
}

// EnsureIndexes creates indexes on cases and the timeline collection.
func (r *CaseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "case_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}); err != nil {
		return err
	}

	_, err := r.timeline.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "event_date", Value: -1}}},
	})
	return err
}
