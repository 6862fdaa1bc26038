package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/dto"
	"post-pilot/cmd/api/services"
)

// DashboardHandler godoc
// @Summary      Dashboard statistics
// @Description  생성한 게시물 수, 예약 게시물 수, 남은 무료 생성 횟수, 요금제를 반환합니다.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  quota.Stats
// @Router       /dashboard [get]
func DashboardHandler(svc *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Stats(c.Request.Context(), auth.UID(c)))
	}
}

// ListPlansHandler godoc
// @Summary      Available plans
// @Tags         plans
// @Produce      json
// @Success      200  {array}  dto.PlanDTO
// @Router       /plans [get]
func ListPlansHandler(svc *services.PlanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.List())
	}
}

// SetUserPlanHandler godoc
// @Summary      Change a user's plan
// @Description  결제 완료 후 운영/결제 시스템이 admin 토큰으로 호출합니다. 일반 사용자는 403 입니다.
// @Tags         plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        uid   path      string              true  "user id"
// @Param        body  body      dto.SetPlanRequest  true  "plan"
// @Success      200   {object}  dto.UserPlanDTO
// @Failure      400   {object}  dto.ValidationErrorDTO
// @Failure      403   {object}  dto.ErrorResponseDTO
// @Router       /admin/users/{uid}/plan [post]
func SetUserPlanHandler(svc *services.PlanService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SetPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		out, err := svc.SetPlan(c.Request.Context(), c.Param("uid"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
