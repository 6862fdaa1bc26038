package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"post-pilot/models"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// FindByUID returns the user record keyed by the identity provider's uid.
func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"uid": uid}).Decode(&u); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// IncrementPostCount adds delta to post_count, creating a free-plan user on first use.
func (r *UserRepository) IncrementPostCount(ctx context.Context, uid string, delta int) error {
	now := time.Now()
	_, err := r.col.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{
		"$setOnInsert": bson.M{
			"uid":        uid,
			"plan":       models.PlanFree,
			"created_at": now,
		},
		"$inc": bson.M{"post_count": delta},
		"$set": bson.M{"updated_at": now},
	}, options.Update().SetUpsert(true))
	return err
}

// ReservePost atomically takes one generation slot. Free users are matched only while
// post_count < limit; premium users always match. A missing user is created on the free plan.
// Returns false when the free limit is already reached.
func (r *UserRepository) ReservePost(ctx context.Context, uid string, limit int) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"uid": uid,
		"$or": bson.A{
			bson.M{"plan": models.PlanPremium},
			bson.M{"post_count": bson.M{"$lt": limit}},
		},
	}
	inc := bson.M{
		"$inc": bson.M{"post_count": 1},
		"$set": bson.M{"updated_at": now},
	}

	_, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$setOnInsert": bson.M{"plan": models.PlanFree, "created_at": now},
		"$inc":         inc["$inc"],
		"$set":         inc["$set"],
	}, options.Update().SetUpsert(true))
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, err
	}

	// 사용자가 이미 있는데 필터에 걸리지 않으면 upsert 가 uniq_uid 에 막힌다.
	// 동시 최초 요청일 수도 있으니 upsert 없이 한 번 더 시도한다.
	res, err := r.col.UpdateOne(ctx, filter, inc)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// SetPlan upserts the user's plan tier.
func (r *UserRepository) SetPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var u models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"uid": uid}, bson.M{
		"$setOnInsert": bson.M{
			"uid":        uid,
			"post_count": 0,
			"created_at": now,
		},
		"$set": bson.M{"plan": plan, "updated_at": now},
	}, opts).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
