package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"post-pilot/models"
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection("posts")}
}

// Insert stores a new post and fills its ID and timestamps.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// FindByID returns a post owned by ownerID.
func (r *PostRepository) FindByID(ctx context.Context, ownerID string, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&p); err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

type ListPostsOptions struct {
	OwnerID  string
	Status   models.PostStatus
	Page     int
	PageSize int
}

// List returns the owner's posts, newest first
func (r *PostRepository) List(ctx context.Context, opt ListPostsOptions) ([]models.Post, int64, error) {
	filter := bson.M{"owner_id": opt.OwnerID}
	if opt.Status != "" {
		filter["status"] = opt.Status
	}

	if opt.Page <= 0 {
		opt.Page = 1
	}
	if opt.PageSize <= 0 || opt.PageSize > 100 {
		opt.PageSize = 20
	}
	skip := int64((opt.Page - 1) * opt.PageSize)
	limit := int64(opt.PageSize)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	posts := make([]models.Post, 0, limit)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListScheduledBetween returns the owner's scheduled posts with scheduled_at in [from, to)
func (r *PostRepository) ListScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) ([]models.Post, error) {
	filter := bson.M{
		"owner_id":     ownerID,
		"status":       models.PostStatusScheduled,
		"scheduled_at": bson.M{"$gte": from, "$lt": to},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostUpdate carries optional field changes; nil fields are left untouched.
type PostUpdate struct {
	Content *string
	Topic   *string
	Tone    *string
}

// Update applies the set fields and returns the updated post.
func (r *PostRepository) Update(ctx context.Context, ownerID string, id primitive.ObjectID, u PostUpdate) (*models.Post, error) {
	set := bson.M{"updated_at": time.Now()}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Topic != nil {
		set["topic"] = *u.Topic
	}
	if u.Tone != nil {
		set["tone"] = *u.Tone
	}
	return r.findOneAndSet(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": set})
}

// Schedule moves a draft or scheduled post to scheduled at the given time.
// Published posts are not matched and yield ErrNotFound.
func (r *PostRepository) Schedule(ctx context.Context, ownerID string, id primitive.ObjectID, at time.Time) (*models.Post, error) {
	filter := bson.M{
		"_id":      id,
		"owner_id": ownerID,
		"status":   bson.M{"$in": []models.PostStatus{models.PostStatusDraft, models.PostStatusScheduled}},
	}
	return r.findOneAndSet(ctx, filter, bson.M{"$set": bson.M{
		"status":       models.PostStatusScheduled,
		"scheduled_at": at,
		"updated_at":   time.Now(),
	}})
}

// Unschedule moves a scheduled post back to draft.
func (r *PostRepository) Unschedule(ctx context.Context, ownerID string, id primitive.ObjectID) (*models.Post, error) {
	filter := bson.M{"_id": id, "owner_id": ownerID, "status": models.PostStatusScheduled}
	return r.findOneAndSet(ctx, filter, bson.M{
		"$set":   bson.M{"status": models.PostStatusDraft, "updated_at": time.Now()},
		"$unset": bson.M{"scheduled_at": ""},
	})
}

// Delete removes a post owned by ownerID.
func (r *PostRepository) Delete(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts the owner's posts in a given status.
func (r *PostRepository) CountByStatus(ctx context.Context, ownerID string, status models.PostStatus) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"owner_id": ownerID, "status": status})
}

// FindDue returns scheduled posts whose scheduled_at is at or before now.
func (r *PostRepository) FindDue(ctx context.Context, now time.Time, limit int64) ([]models.Post, error) {
	filter := bson.M{
		"status":       models.PostStatusScheduled,
		"scheduled_at": bson.M{"$lte": now},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: 1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MarkPublished flips a post that is still scheduled at or before at to published.
// Returns false when the post was unscheduled, rescheduled later, or already handled by another sweep.
func (r *PostRepository) MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":          id,
			"status":       models.PostStatusScheduled,
			"scheduled_at": bson.M{"$lte": at},
		},
		bson.M{"$set": bson.M{
			"status":       models.PostStatusPublished,
			"published_at": at,
			"updated_at":   at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *PostRepository) findOneAndSet(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	var p models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}
