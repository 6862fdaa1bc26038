package services

import (
	"context"
	"errors"

	"post-pilot/config"
	"post-pilot/models"
	"post-pilot/quota"
	"post-pilot/repositories"
)

type DashboardService struct {
	users     UserStore
	posts     PostStore
	freeLimit int
}

func NewDashboardService(users UserStore, posts PostStore, freeLimit int) *DashboardService {
	if freeLimit <= 0 {
		freeLimit = quota.DefaultFreePostLimit
	}
	return &DashboardService{users: users, posts: posts, freeLimit: freeLimit}
}

// Stats 는 대시보드 카드 값을 계산한다.
// 사용자 문서가 없거나 조회에 실패하면 기본값(무료, 0 건 생성)을 보여준다.
func (s *DashboardService) Stats(ctx context.Context, uid string) quota.Stats {
	u, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			config.Logger.Errorf("failed to load user %s for dashboard: %v", uid, err)
		}
		u = nil
	}

	scheduled, err := s.posts.CountByStatus(ctx, uid, models.PostStatusScheduled)
	if err != nil {
		config.Logger.Errorf("failed to count scheduled posts for %s: %v", uid, err)
		scheduled = 0
	}

	return quota.Derive(u, int(scheduled), s.freeLimit)
}
