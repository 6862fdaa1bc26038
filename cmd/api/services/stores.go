package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"post-pilot/models"
	"post-pilot/repositories"
)

// UserStore 는 users 컬렉션 접근 추상화다. repositories.UserRepository 가 구현한다.
type UserStore interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	IncrementPostCount(ctx context.Context, uid string, delta int) error
	ReservePost(ctx context.Context, uid string, limit int) (bool, error)
	SetPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error)
}

// PostStore 는 posts 컬렉션 접근 추상화다. repositories.PostRepository 가 구현한다.
type PostStore interface {
	Insert(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, ownerID string, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, opt repositories.ListPostsOptions) ([]models.Post, int64, error)
	ListScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) ([]models.Post, error)
	Update(ctx context.Context, ownerID string, id primitive.ObjectID, u repositories.PostUpdate) (*models.Post, error)
	Schedule(ctx context.Context, ownerID string, id primitive.ObjectID, at time.Time) (*models.Post, error)
	Unschedule(ctx context.Context, ownerID string, id primitive.ObjectID) (*models.Post, error)
	Delete(ctx context.Context, ownerID string, id primitive.ObjectID) error
	CountByStatus(ctx context.Context, ownerID string, status models.PostStatus) (int64, error)
}

type AILogStore interface {
	Insert(ctx context.Context, log models.AILog) error
}

// Limiter 는 모델 호출 전 속도/일일 한도를 적용한다. quota.FlowLimiter 가 구현한다.
type Limiter interface {
	WaitAndReserve(ctx context.Context) (bool, error)
}

var (
	_ UserStore  = (*repositories.UserRepository)(nil)
	_ PostStore  = (*repositories.PostRepository)(nil)
	_ AILogStore = (*repositories.AILogRepository)(nil)
)
