package dto

import "post-pilot/models"

// PlanDTO 는 업그레이드 페이지에 표시되는 요금제 정보다.
type PlanDTO struct {
	ID          models.Plan `json:"id" example:"premium"`
	Name        string      `json:"name" example:"Premium"`
	Price       string      `json:"price" example:"$10/month"`
	Description string      `json:"description"`
	Features    []string    `json:"features"`
	PostLimit   *int        `json:"post_limit,omitempty"`
}

type SetPlanRequest struct {
	Plan models.Plan `json:"plan" example:"premium"`
}

type UserPlanDTO struct {
	UID       string      `json:"uid"`
	Plan      models.Plan `json:"plan"`
	PostCount int         `json:"post_count"`
}
