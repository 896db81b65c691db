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

const collectionDocuments = "documents"

type DocumentRepository struct {
	db    *mongo.Database
	col   *mongo.Collection
	cases *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{
		db:    db,
		col:   db.Collection(collectionDocuments),
		cases: db.Collection(collectionCases),
	}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionDocuments)
	if err != nil {
		return nil, err
	}

	doc := *d
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id int64) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Document
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &d, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) List(ctx context.Context, filter ports.DocumentFilter, ownerID int64) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.CaseID != 0 {
		query["case_id"] = filter.CaseID
	}
	if filter.Type != "" {
		query["document_type"] = string(filter.Type)
	}

	if ownerID != 0 {
		caseIDs, err := r.clientCaseIDs(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		// The visibility flag gates every client read, own uploads included,
		// so listing and detail access agree on what a client can see.
		query["$or"] = []bson.M{
			{"uploader_id": ownerID, "visible_to_client": true},
			{"case_id": bson.M{"$in": caseIDs}, "visible_to_client": true},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	var docs []domain.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// clientCaseIDs returns the IDs of every case belonging to the client.
func (r *DocumentRepository) clientCaseIDs(ctx context.Context, clientID int64) ([]int64, error) {
	cur, err := r.cases.Find(ctx, bson.M{"client_id": clientID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list client cases: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode client cases: %w", err)
	}
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

func (r *DocumentRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates indexes on the documents collection.
func (r *DocumentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "case_id", Value: 1}}},
		{Keys: bson.D{{Key: "uploader_id", Value: 1}}},
	})
	return err
}
