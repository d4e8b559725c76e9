package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/models"
)

const (
	planCacheKey = "planMaster:all"
	planCacheTTL = 10 * time.Minute
)

// PlanRepository reads the immutable plan catalog, with a Redis cache in
// front of Mongo. A nil Redis client disables caching.
type PlanRepository struct {
	collection *mongo.Collection
	cache      *redis.Client
}

func NewPlanRepository(db *mongo.Client, cache *redis.Client) *PlanRepository {
	return &PlanRepository{
		collection: config.GetCollection(db, "planMaster"),
		cache:      cache,
	}
}

// ListPlans returns all plans, cache first
func (r *PlanRepository) ListPlans(ctx context.Context) ([]models.Plan, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, planCacheKey).Result()
		if err == nil {
			var plans []models.Plan
			if err := json.Unmarshal([]byte(cached), &plans); err == nil {
				return plans, nil
			}
		} else if err != redis.Nil {
			log.Printf("Plan cache read failed: %v", err)
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.Plan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if encoded, err := json.Marshal(plans); err == nil {
			if err := r.cache.Set(ctx, planCacheKey, encoded, planCacheTTL).Err(); err != nil {
				log.Printf("Plan cache write failed: %v", err)
			}
		}
	}

	return plans, nil
}

// GetPlan resolves a single plan by id
func (r *PlanRepository) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	plans, err := r.ListPlans(ctx)
	if err == nil {
		for i := range plans {
			if plans[i].ID == planID {
				return &plans[i], nil
			}
		}
	}

	var plan models.Plan
	if err := r.collection.FindOne(ctx, bson.M{"_id": planID}).Decode(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
