package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ferreirogomes/propfolio/logging"
	"github.com/ferreirogomes/propfolio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const propertiesCollection = "properties"

// propertyDocument é o formato gravado na coleção: o _id é um ObjectID e o
// restante dos campos vem de models.Property.
type propertyDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	models.Property `bson:",inline"`
}

func (d propertyDocument) toModel() models.Property {
	p := d.Property
	p.ID = d.ID.Hex()
	if p.Owners == nil {
		p.Owners = models.Owners{}
	}
	return p
}

// MongoStore guarda os imóveis em uma coleção do MongoDB.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore conecta ao MongoDB, valida a conexão e garante os índices.
func NewMongoStore(ctx context.Context, uri, database string, logger logging.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("falha ao pingar o MongoDB: %w", err)
	}
	logger.Info("Conexão com MongoDB estabelecida com sucesso.", logging.Fields{"database": database})

	s := &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(propertiesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("falha ao criar índices: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("falha ao listar imóveis: %w", err)
	}
	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("falha ao ler imóveis: %w", err)
	}

	properties := make([]models.Property, 0, len(docs))
	for _, d := range docs {
		properties = append(properties, d.toModel())
	}
	return properties, nil
}

func (s *MongoStore) GetProperty(ctx context.Context, id string) (models.Property, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Property{}, false, ErrInvalidID
	}

	var doc propertyDocument
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Property{}, false, nil
	}
	if err != nil {
		return models.Property{}, false, fmt.Errorf("falha ao buscar imóvel: %w", err)
	}
	return doc.toModel(), true, nil
}

func (s *MongoStore) InsertProperty(ctx context.Context, p models.Property) (string, error) {
	res, err := s.collection.InsertOne(ctx, propertyDocument{Property: p})
	if err != nil {
		return "", fmt.Errorf("falha ao inserir imóvel: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (s *MongoStore) UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return ErrNotModified
	}

	set := make(bson.D, 0, len(fields))
	for _, f := range fields {
		set = append(set, bson.E{Key: f.Name, Value: f.Value})
	}

	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("falha ao atualizar imóvel: %w", err)
	}
	switch {
	case res.MatchedCount == 0:
		return ErrNotFound
	case res.ModifiedCount != 1:
		return ErrNotModified
	}
	return nil
}

func (s *MongoStore) DeleteProperty(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("falha ao remover imóvel: %w", err)
	}
	return res.DeletedCount == 1, nil
}

func (s *MongoStore) CountProperties(ctx context.Context, f models.MetricsFilter) (int64, error) {
	total, err := s.collection.CountDocuments(ctx, metricsQuery(f))
	if err != nil {
		return 0, fmt.Errorf("falha ao contar imóveis: %w", err)
	}
	return total, nil
}

func (s *MongoStore) AveragePurchasePrice(ctx context.Context, f models.MetricsFilter) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: metricsQuery(f)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_price", Value: bson.D{{Key: "$avg", Value: "$purchase_price"}}},
		}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("falha ao calcular preço médio: %w", err)
	}
	var results []struct {
		AvgPrice *float64 `bson:"avg_price"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, false, fmt.Errorf("falha ao ler preço médio: %w", err)
	}
	if len(results) == 0 || results[0].AvgPrice == nil {
		return 0, false, nil
	}
	return *results[0].AvgPrice, true, nil
}

func (s *MongoStore) RecentProperties(ctx context.Context, f models.MetricsFilter, limit int) ([]models.PropertySummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"title": 1, "location": 1, "type": 1, "created_at": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, metricsQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar imóveis recentes: %w", err)
	}
	var docs []struct {
		ID        primitive.ObjectID `bson:"_id"`
		Title     string             `bson:"title"`
		Location  string             `bson:"location"`
		Type      string             `bson:"type"`
		CreatedAt time.Time          `bson:"created_at"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("falha ao ler imóveis recentes: %w", err)
	}

	recent := make([]models.PropertySummary, 0, len(docs))
	for _, d := range docs {
		recent = append(recent, models.PropertySummary{
			ID:        d.ID.Hex(),
			Title:     d.Title,
			Location:  d.Location,
			Type:      d.Type,
			CreatedAt: d.CreatedAt,
		})
	}
	return recent, nil
}

func (s *MongoStore) CountByType(ctx context.Context) ([]models.TypeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("falha ao agrupar imóveis por tipo: %w", err)
	}
	var groups []struct {
		Type  *string `bson:"_id"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("falha ao ler agrupamento por tipo: %w", err)
	}

	counts := make([]models.TypeCount, 0, len(groups))
	for _, g := range groups {
		tc := models.TypeCount{Count: g.Count}
		if g.Type != nil {
			tc.Type = *g.Type
		}
		counts = append(counts, tc)
	}
	return counts, nil
}

func metricsQuery(f models.MetricsFilter) bson.M {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.CreatedFrom != nil || f.CreatedBefore != nil {
		createdAt := bson.M{}
		if f.CreatedFrom != nil {
			createdAt["$gte"] = *f.CreatedFrom
		}
		if f.CreatedBefore != nil {
			createdAt["$lt"] = *f.CreatedBefore
		}
		query["created_at"] = createdAt
	}
	return query
}
