package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"post-pilot/models"
)

type AILogRepository struct {
	col *mongo.Collection
}

func NewAILogRepository(db *mongo.Database) *AILogRepository {
	return &AILogRepository{col: db.Collection("ai_logs")}
}

func (r *AILogRepository) Insert(ctx context.Context, log models.AILog) error {
	if log.RequestedAt.IsZero() {
		log.RequestedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, log)
	// 재시도로 같은 로그가 다시 들어오면 이미 저장된 것으로 본다
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
