package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-pilot/cmd/api/dto"
	"post-pilot/cmd/api/services/servicetest"
	"post-pilot/flows"
	"post-pilot/models"
	"post-pilot/quota"
)

func TestDashboardStats(t *testing.T) {
	users := servicetest.NewUsers(
		models.User{UID: "free3", Plan: models.PlanFree, PostCount: 3},
		models.User{UID: "free9", Plan: models.PlanFree, PostCount: 9},
		models.User{UID: "pro", Plan: models.PlanPremium, PostCount: 12},
	)
	posts := servicetest.NewPosts()
	p := &models.Post{OwnerID: "free3", Content: "x"}
	require.NoError(t, posts.Insert(context.Background(), p))
	_, err := posts.Schedule(context.Background(), "free3", p.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	svc := NewDashboardService(users, posts, 5)

	s := svc.Stats(context.Background(), "free3")
	assert.Equal(t, quota.Stats{PostsGenerated: 3, PostsScheduled: 1, FreePostsRemaining: 2, Plan: models.PlanFree, ShowQuota: true}, s)

	s = svc.Stats(context.Background(), "free9")
	assert.Equal(t, 0, s.FreePostsRemaining)

	s = svc.Stats(context.Background(), "pro")
	assert.Equal(t, 12, s.PostsGenerated)
	assert.False(t, s.ShowQuota)
}

func TestDashboardDefaultsWhenUserMissingOrStoreDown(t *testing.T) {
	users := servicetest.NewUsers()
	posts := servicetest.NewPosts()
	svc := NewDashboardService(users, posts, 5)

	want := quota.Stats{FreePostsRemaining: 5, Plan: models.PlanFree, ShowQuota: true}
	assert.Equal(t, want, svc.Stats(context.Background(), "ghost"))

	users.Err = servicetest.ErrStoreDown
	posts.Err = servicetest.ErrStoreDown
	assert.Equal(t, want, svc.Stats(context.Background(), "ghost"))
}

func TestPlanService(t *testing.T) {
	users := servicetest.NewUsers()
	svc := NewPlanService(users, 5)

	plans := svc.List()
	require.Len(t, plans, 2)
	require.NotNil(t, plans[0].PostLimit)
	assert.Equal(t, 5, *plans[0].PostLimit)
	assert.Nil(t, plans[1].PostLimit)

	got, err := svc.SetPlan(context.Background(), "u1", dto.SetPlanRequest{Plan: models.PlanPremium})
	require.NoError(t, err)
	assert.Equal(t, dto.UserPlanDTO{UID: "u1", Plan: models.PlanPremium}, got)

	_, err = svc.SetPlan(context.Background(), "u1", dto.SetPlanRequest{Plan: "gold"})
	var ve *flows.ValidationError
	assert.ErrorAs(t, err, &ve)
}
