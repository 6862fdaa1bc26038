package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/services"
	"post-pilot/flows"
)

// GeneratePostHandler godoc
// @Summary      Generate a LinkedIn post
// @Description  주제/톤/키워드/대상/목표로 새 게시물을 생성합니다. 무료 플랜은 월 5회로 제한됩니다.
// @Tags         flows
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      flows.GenerationRequest  true  "generation input"
// @Success      200   {object}  flows.GenerationResult
// @Failure      400   {object}  dto.ValidationErrorDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      402   {object}  dto.ErrorResponseDTO
// @Failure      429   {object}  dto.ErrorResponseDTO
// @Failure      502   {object}  dto.ErrorResponseDTO
// @Router       /flows/generate [post]
func GeneratePostHandler(svc *services.FlowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req flows.GenerationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		out, err := svc.Generate(c.Request.Context(), auth.UID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// RegeneratePostHandler godoc
// @Summary      Regenerate a post
// @Description  기존 게시물과 다른 새 버전을 생성합니다.
// @Tags         flows
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      flows.RegenerationRequest  true  "regeneration input"
// @Success      200   {object}  flows.RegenerationResult
// @Failure      400   {object}  dto.ValidationErrorDTO
// @Failure      402   {object}  dto.ErrorResponseDTO
// @Failure      502   {object}  dto.ErrorResponseDTO
// @Router       /flows/regenerate [post]
func RegeneratePostHandler(svc *services.FlowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req flows.RegenerationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		out, err := svc.Regenerate(c.Request.Context(), auth.UID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// SummarizePostsHandler godoc
// @Summary      Summarize past posts
// @Description  과거 게시물 목록에서 성과가 좋았던 주제 요약과 개선 제안을 만듭니다.
// @Tags         flows
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      flows.SummaryRequest  true  "posts to summarize"
// @Success      200   {object}  flows.SummaryResult
// @Failure      400   {object}  dto.ValidationErrorDTO
// @Failure      502   {object}  dto.ErrorResponseDTO
// @Router       /flows/summarize [post]
func SummarizePostsHandler(svc *services.FlowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req flows.SummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		out, err := svc.Summarize(c.Request.Context(), auth.UID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
