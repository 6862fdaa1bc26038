package quota

import (
	"fmt"

	"post-pilot/models"
)

// DefaultFreePostLimit 는 무료 플랜에서 생성 가능한 게시물 수다.
const DefaultFreePostLimit = 5

// Stats 는 대시보드 카드에 표시되는 카운터다.
type Stats struct {
	PostsGenerated     int         `json:"posts_generated"`
	PostsScheduled     int         `json:"posts_scheduled"`
	FreePostsRemaining int         `json:"free_posts_remaining"`
	Plan               models.Plan `json:"plan"`
	// ShowQuota 가 false 이면 UI 는 남은 무료 횟수 카드를 숨긴다.
	ShowQuota bool `json:"show_quota"`
}

// Remaining 은 max(0, limit - postCount) 이며 유료 플랜이면 0 이다.
func Remaining(plan models.Plan, postCount, limit int) int {
	if plan != models.PlanFree {
		return 0
	}
	if r := limit - postCount; r > 0 {
		return r
	}
	return 0
}

// Exhausted 는 무료 플랜 사용자가 더 이상 생성할 수 없는지 여부다.
func Exhausted(plan models.Plan, postCount, limit int) bool {
	return plan == models.PlanFree && postCount >= limit
}

// Derive 는 사용자 문서(없으면 nil)와 예약 게시물 수로 대시보드 통계를 계산한다.
// 문서가 없는 신규 사용자는 무료 플랜, 생성 0 건으로 본다.
func Derive(u *models.User, scheduled int, limit int) Stats {
	plan := models.PlanFree
	postCount := 0
	if u != nil {
		postCount = u.PostCount
		if u.Plan != "" {
			plan = u.Plan
		}
	}
	return Stats{
		PostsGenerated:     postCount,
		PostsScheduled:     scheduled,
		FreePostsRemaining: Remaining(plan, postCount, limit),
		Plan:               plan,
		ShowQuota:          plan == models.PlanFree,
	}
}

// PlanInfo 는 업그레이드 페이지의 요금제 카드 내용이다.
type PlanInfo struct {
	ID          models.Plan
	Name        string
	Price       string
	Description string
	Features    []string
	// PostLimit 이 0 이면 무제한
	PostLimit int
}

// Catalogue 는 무료/프리미엄 요금제 목록을 반환한다.
func Catalogue(freeLimit int) []PlanInfo {
	return []PlanInfo{
		{
			ID:          models.PlanFree,
			Name:        "Free Plan",
			Price:       "$0/month",
			Description: "For getting started and trying out our features.",
			Features: []string{
				fmt.Sprintf("%d AI post generations per month", freeLimit),
				"Standard AI model",
				"Access to post library",
				"Content calendar",
			},
			PostLimit: freeLimit,
		},
		{
			ID:          models.PlanPremium,
			Name:        "Premium Plan",
			Price:       "$10/month",
			Description: "For professionals and creators who want to maximize their impact.",
			Features: []string{
				"Unlimited AI post generations",
				"Advanced AI model for higher quality posts",
				"Priority support",
				"All features from the Free plan",
			},
		},
	}
}
