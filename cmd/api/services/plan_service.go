package services

import (
	"context"

	"post-pilot/cmd/api/dto"
	"post-pilot/flows"
	"post-pilot/quota"
)

type PlanService struct {
	users     UserStore
	freeLimit int
}

func NewPlanService(users UserStore, freeLimit int) *PlanService {
	if freeLimit <= 0 {
		freeLimit = quota.DefaultFreePostLimit
	}
	return &PlanService{users: users, freeLimit: freeLimit}
}

func (s *PlanService) List() []dto.PlanDTO {
	catalogue := quota.Catalogue(s.freeLimit)
	out := make([]dto.PlanDTO, 0, len(catalogue))
	for _, p := range catalogue {
		d := dto.PlanDTO{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Features:    p.Features,
		}
		if p.PostLimit > 0 {
			limit := p.PostLimit
			d.PostLimit = &limit
		}
		out = append(out, d)
	}
	return out
}

// SetPlan 은 사용자의 요금제를 기록한다. 결제 처리는 외부에서 끝난 뒤 호출된다고 가정한다.
func (s *PlanService) SetPlan(ctx context.Context, uid string, req dto.SetPlanRequest) (dto.UserPlanDTO, error) {
	if !req.Plan.Valid() {
		return dto.UserPlanDTO{}, &flows.ValidationError{Flow: "setPlan", Field: "plan", Reason: "must be one of free, premium"}
	}
	u, err := s.users.SetPlan(ctx, uid, req.Plan)
	if err != nil {
		return dto.UserPlanDTO{}, err
	}
	return dto.UserPlanDTO{UID: u.UID, Plan: u.Plan, PostCount: u.PostCount}, nil
}
