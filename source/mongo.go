package source

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paddytrack/analytics"
	"paddytrack/models"
)

// Mongo reads samples, regions and baselines from a MongoDB database.
// It never writes computed results.
type Mongo struct {
	client    *mongo.Client
	samples   *mongo.Collection
	regions   *mongo.Collection
	baselines *mongo.Collection
}

type baselineDoc struct {
	RegionID string  `bson:"regionId"`
	YieldTph float64 `bson:"yieldTph"`
}

// NewMongo connects and makes sure the lookup indexes exist.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	db := client.Database(database)

	m := &Mongo{
		client:    client,
		samples:   db.Collection("samples"),
		regions:   db.Collection("regions"),
		baselines: db.Collection("baselines"),
	}
	// Indexes
	if _, err := m.samples.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "regionId", Value: 1}, {Key: "timestamp", Value: 1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("samples index: %w", err)
	}
	if _, err := m.samples.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("samples geo index: %w", err)
	}
	if _, err := m.baselines.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "regionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("baselines index: %w", err)
	}
	return m, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }

// Samples returns the region's samples in the window, oldest first.
func (m *Mongo) Samples(ctx context.Context, region models.Region, window models.TimeWindow) ([]models.Sample, error) {
	filter := sampleFilter(region, window)
	cur, err := m.samples.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find samples: %w", err)
	}
	defer cur.Close(ctx)

	var raw []models.Sample
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return Clean(raw, region, window)
}

// sampleFilter selects custom areas with $geoWithin on the sample location
// and every other region by id.
func sampleFilter(region models.Region, window models.TimeWindow) bson.M {
	filter := bson.M{
		"timestamp": bson.M{"$gte": window.Start, "$lte": window.End},
	}
	if region.Custom() {
		filter["location"] = bson.M{"$geoWithin": bson.M{"$geometry": region.Geometry}}
	} else {
		filter["regionId"] = region.ID
	}
	return filter
}

// Region looks up an AOI by id.
func (m *Mongo) Region(ctx context.Context, id string) (models.Region, error) {
	var r models.Region
	if err := m.regions.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Region{}, &analytics.UnknownRegionError{RegionID: id}
		}
		return models.Region{}, fmt.Errorf("find region %q: %w", id, err)
	}
	return r.WithArea(), nil
}

// Regions lists every stored AOI sorted by id.
func (m *Mongo) Regions(ctx context.Context) ([]models.Region, error) {
	cur, err := m.regions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find regions: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Region
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	for i := range out {
		out[i] = out[i].WithArea()
	}
	return out, nil
}

// LoadBaselines fetches the whole baseline table. The result is a snapshot
// handed to the engine for one request.
func (m *Mongo) LoadBaselines(ctx context.Context) (analytics.StaticBaselines, error) {
	cur, err := m.baselines.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find baselines: %w", err)
	}
	defer cur.Close(ctx)

	var docs []baselineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode baselines: %w", err)
	}
	out := make(analytics.StaticBaselines, len(docs))
	for _, d := range docs {
		out[d.RegionID] = d.YieldTph
	}
	return out, nil
}
