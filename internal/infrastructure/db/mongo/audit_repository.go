package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/koptay/client-portal/internal/core/domain"
)

const collectionAudit = "audit_log"

// AuditRepository is append-only; reads happen out of band through the
// database directly.
type AuditRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db, col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionAudit)
	if err != nil {
		return err
	}

	doc := *entry
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
