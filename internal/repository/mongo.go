package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/set-night/pagecast/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	analysesCollection = "analyses"
	configsCollection  = "ai_configs"
)

// MongoStore persists analyses and per-user AI configs as documents.
type MongoStore struct {
	client   *mongo.Client
	analyses *mongo.Collection
	configs  *mongo.Collection
}

// NewMongoStore connects, pings and ensures the indexes the queries rely on.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		analyses: db.Collection(analysesCollection),
		configs:  db.Collection(configsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.analyses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}, {Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create analysis indexes: %w", err)
	}
	_, err = s.configs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create config index: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type analysisDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	URL       string             `bson:"url"`
	UserID    string             `bson:"userId"`
	Analysis  analysisResultDoc  `bson:"analysis"`
	Audio     audioDoc           `bson:"audio"`
	Usage     usageDoc           `bson:"usage"`
	Timestamp time.Time          `bson:"timestamp"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type analysisResultDoc struct {
	Summary   string   `bson:"summary"`
	KeyPoints []string `bson:"keyPoints"`
	Sentiment string   `bson:"sentiment"`
	WordCount int      `bson:"wordCount"`
}

type audioDoc struct {
	AudioURL string `bson:"audioUrl"`
	AudioID  string `bson:"audioId"`
	Duration int    `bson:"duration"`
}

type usageDoc struct {
	ModelID          string `bson:"modelId"`
	PromptID         string `bson:"promptId"`
	PromptTokens     int64  `bson:"promptTokens"`
	CompletionTokens int64  `bson:"completionTokens"`
	Cost             string `bson:"cost"`
	ParseMode        string `bson:"parseMode"`
}

func toAnalysisDoc(rec *domain.AnalysisRecord) analysisDoc {
	keyPoints := rec.Analysis.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return analysisDoc{
		URL:    rec.URL,
		UserID: rec.UserID,
		Analysis: analysisResultDoc{
			Summary:   rec.Analysis.Summary,
			KeyPoints: keyPoints,
			Sentiment: string(rec.Analysis.Sentiment),
			WordCount: rec.Analysis.WordCount,
		},
		Audio: audioDoc{
			AudioURL: rec.Audio.AudioURL,
			AudioID:  rec.Audio.AudioID,
			Duration: rec.Audio.Duration,
		},
		Usage: usageDoc{
			ModelID:          rec.Usage.ModelID,
			PromptID:         rec.Usage.PromptID,
			PromptTokens:     rec.Usage.PromptTokens,
			CompletionTokens: rec.Usage.CompletionTokens,
			Cost:             rec.Usage.Cost.String(),
			ParseMode:        string(rec.Usage.ParseMode),
		},
		Timestamp: rec.Timestamp,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (d analysisDoc) toDomain() *domain.AnalysisRecord {
	cost, err := decimal.NewFromString(d.Usage.Cost)
	if err != nil {
		cost = decimal.Zero
	}
	keyPoints := d.Analysis.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return &domain.AnalysisRecord{
		ID:     d.ID.Hex(),
		URL:    d.URL,
		UserID: d.UserID,
		Analysis: domain.AnalysisResult{
			Summary:   d.Analysis.Summary,
			KeyPoints: keyPoints,
			Sentiment: domain.Sentiment(d.Analysis.Sentiment),
			WordCount: d.Analysis.WordCount,
		},
		Audio: domain.AudioResult{
			AudioURL: d.Audio.AudioURL,
			AudioID:  d.Audio.AudioID,
			Duration: d.Audio.Duration,
		},
		Usage: domain.Usage{
			ModelID:          d.Usage.ModelID,
			PromptID:         d.Usage.PromptID,
			PromptTokens:     d.Usage.PromptTokens,
			CompletionTokens: d.Usage.CompletionTokens,
			Cost:             cost,
			ParseMode:        domain.ParseMode(d.Usage.ParseMode),
		},
		Timestamp: d.Timestamp,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *MongoStore) LatestAnalysis(ctx context.Context, url, userID string) (*domain.AnalysisRecord, error) {
	var doc analysisDoc
	err := s.analyses.FindOne(ctx,
		bson.M{"url": url, "userId": userID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("get latest analysis: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) InsertAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	now := time.Now().UTC()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	doc := toAnalysisDoc(rec)
	doc.ID = primitive.NewObjectID()
	if _, err := s.analyses.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	rec.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) ListAnalyses(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	cur, err := s.analyses.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer cur.Close(ctx)

	records := make([]domain.AnalysisRecord, 0, limit)
	for cur.Next(ctx) {
		var doc analysisDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		records = append(records, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return records, nil
}

func (s *MongoStore) GetAnalysis(ctx context.Context, id, userID string) (*domain.AnalysisRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAnalysisNotFound
	}
	var doc analysisDoc
	err = s.analyses.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) DeleteAnalysis(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAnalysisNotFound
	}
	res, err := s.analyses.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnalysisNotFound
	}
	return nil
}

func (s *MongoStore) DeleteUserAnalyses(ctx context.Context, userID string) (int64, error) {
	res, err := s.analyses.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("delete user analyses: %w", err)
	}
	return res.DeletedCount, nil
}

type configDoc struct {
	UserID           string    `bson:"userId"`
	ModelID          string    `bson:"modelId"`
	PromptID         string    `bson:"promptId"`
	Language         string    `bson:"language"`
	MaxContentLength int       `bson:"maxContentLength"`
	EnableCaching    bool      `bson:"enableCaching"`
	CacheExpiration  int       `bson:"cacheExpiration"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

func (d configDoc) toDomain() *domain.UserAIConfig {
	return &domain.UserAIConfig{
		UserID:           d.UserID,
		ModelID:          d.ModelID,
		PromptID:         d.PromptID,
		Language:         d.Language,
		MaxContentLength: d.MaxContentLength,
		EnableCaching:    d.EnableCaching,
		CacheExpiration:  d.CacheExpiration,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (s *MongoStore) GetConfig(ctx context.Context, userID string) (*domain.UserAIConfig, error) {
	var doc configDoc
	if err := s.configs.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("get ai config: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) CreateConfig(ctx context.Context, cfg domain.UserAIConfig) (*domain.UserAIConfig, error) {
	now := time.Now().UTC()
	_, err := s.configs.UpdateOne(ctx,
		bson.M{"userId": cfg.UserID},
		bson.M{"$setOnInsert": bson.M{
			"userId":           cfg.UserID,
			"modelId":          cfg.ModelID,
			"promptId":         cfg.PromptID,
			"language":         cfg.Language,
			"maxContentLength": cfg.MaxContentLength,
			"enableCaching":    cfg.EnableCaching,
			"cacheExpiration":  cfg.CacheExpiration,
			"createdAt":        now,
			"updatedAt":        now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create ai config: %w", err)
	}
	return s.GetConfig(ctx, cfg.UserID)
}

// UpdateConfig sets the fields present in upd; absent fields are only written
// when the document is being inserted.
func (s *MongoStore) UpdateConfig(ctx context.Context, userID string, upd domain.ConfigUpdate, defaults domain.UserAIConfig) (*domain.UserAIConfig, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	onInsert := bson.M{"createdAt": now}

	put := func(field string, present bool, value, fallback any) {
		if present {
			set[field] = value
		} else {
			onInsert[field] = fallback
		}
	}
	put("modelId", upd.ModelID != nil, deref(upd.ModelID), defaults.ModelID)
	put("promptId", upd.PromptID != nil, deref(upd.PromptID), defaults.PromptID)
	put("language", upd.Language != nil, deref(upd.Language), defaults.Language)
	put("maxContentLength", upd.MaxContentLength != nil, deref(upd.MaxContentLength), defaults.MaxContentLength)
	put("enableCaching", upd.EnableCaching != nil, deref(upd.EnableCaching), defaults.EnableCaching)
	put("cacheExpiration", upd.CacheExpiration != nil, deref(upd.CacheExpiration), defaults.CacheExpiration)

	var doc configDoc
	err := s.configs.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert ai config: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) DeleteConfig(ctx context.Context, userID string) error {
	res, err := s.configs.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("delete ai config: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
