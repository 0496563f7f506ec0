package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

const collectionProducts = "products"

// ProductRepository implements ports.ProductRepository using MongoDB.
type ProductRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		col: db.Collection(collectionProducts),
		ids: newSequence(db, collectionProducts),
	}
}

type productDocument struct {
	ID            int64     `bson:"_id"`
	OwnerID       int64     `bson:"owner_id"`
	OwnerUsername string    `bson:"owner_username"`
	Name          string    `bson:"name"`
	Price         float64   `bson:"price"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toProductDocument(p *domain.Product) productDocument {
	return productDocument{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		OwnerUsername: p.OwnerUsername,
		Name:          p.Name,
		Price:         p.Price,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
}

func (d productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:            d.ID,
		OwnerID:       d.OwnerID,
		OwnerUsername: d.OwnerUsername,
		Name:          d.Name,
		Price:         d.Price,
		Status:        domain.Status(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) ListOwnedIDs(ctx context.Context, accountID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list owned products: %w", err)
	}

	var rows []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode owned products: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toProductDocument(product)
	if doc.ID == 0 {
		id, err := r.ids.next(ctx)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			return nil, fmt.Errorf("insert product: %w", err)
		}
		return doc.toDomain(), nil
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("replace product %d: %w", doc.ID, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProductNotFound
	}
	return doc.toDomain(), nil
}

// List returns one page of matching products ordered by id, plus the total.
func (r *ProductRepository) List(ctx context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := productFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetSkip(int64(f.Page) * int64(f.Limit)).SetLimit(int64(f.Limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	items := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

func productFilter(f ports.ListProductsFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != 0 {
		filter["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	return filter
}

// EnsureIndexes creates the owner and status lookup indexes.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}
