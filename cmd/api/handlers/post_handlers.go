package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/dto"
	"post-pilot/cmd/api/services"
)

// SavePostHandler godoc
// @Summary      Save a post to the library
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SavePostRequest  true  "post"
// @Success      201   {object}  dto.PostDTO
// @Failure      400   {object}  dto.ValidationErrorDTO
// @Router       /posts [post]
func SavePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SavePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		p, err := svc.Save(c.Request.Context(), auth.UID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// ListPostsHandler godoc
// @Summary      List library posts
// @Description  현재 사용자의 게시물을 최신순으로 조회합니다.
// @Tags         posts
// @Security     BearerAuth
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        status     query  string  false  "draft | scheduled | published"
// @Produce      json
// @Success      200  {object}  dto.PaginationPostDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ListPostsInput
		in.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		in.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
		in.Status = c.Query("status")

		page, err := svc.List(c.Request.Context(), auth.UID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetPostHandler godoc
// @Summary      Get a library post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), auth.UID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// UpdatePostHandler godoc
// @Summary      Edit a library post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Param        id    path  string                 true  "ObjectID"
// @Param        body  body  dto.UpdatePostRequest  true  "fields to change"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [patch]
func UpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		p, err := svc.Update(c.Request.Context(), auth.UID(c), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// DeletePostHandler godoc
// @Summary      Delete a library post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func DeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), auth.UID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "post_deleted"})
	}
}

// RegenerateSavedPostHandler godoc
// @Summary      Regenerate a saved post in place
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      402  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/regenerate [post]
func RegenerateSavedPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.RegenerateInPlace(c.Request.Context(), auth.UID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// SchedulePostHandler godoc
// @Summary      Schedule a post
// @Tags         calendar
// @Security     BearerAuth
// @Accept       json
// @Param        id    path  string                   true  "ObjectID"
// @Param        body  body  dto.SchedulePostRequest  true  "schedule time (RFC3339)"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      400  {object}  dto.ValidationErrorDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/schedule [post]
func SchedulePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SchedulePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c)
			return
		}
		p, err := svc.Schedule(c.Request.Context(), auth.UID(c), c.Param("id"), req.ScheduledAt)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// UnschedulePostHandler godoc
// @Summary      Unschedule a post
// @Tags         calendar
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/schedule [delete]
func UnschedulePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Unschedule(c.Request.Context(), auth.UID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// CalendarHandler godoc
// @Summary      Scheduled posts in a date range
// @Description  from 이상 to 미만 구간의 예약 게시물을 조회합니다. 기본값은 오늘부터 7일입니다.
// @Tags         calendar
// @Security     BearerAuth
// @Param        from  query  string  false  "RFC3339 or YYYY-MM-DD"
// @Param        to    query  string  false  "RFC3339 or YYYY-MM-DD"
// @Produce      json
// @Success      200  {object}  dto.CalendarDTO
// @Failure      400  {object}  dto.ValidationErrorDTO
// @Router       /calendar [get]
func CalendarHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		from, ok := parseTimeParam(c, "from", today)
		if !ok {
			return
		}
		to, ok := parseTimeParam(c, "to", from.Add(7*24*time.Hour))
		if !ok {
			return
		}
		cal, err := svc.Calendar(c.Request.Context(), auth.UID(c), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cal)
	}
}

// PreviewPostHandler godoc
// @Summary      HTML preview of a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PreviewDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/preview [get]
func PreviewPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Preview(c.Request.Context(), auth.UID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func parseTimeParam(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	c.JSON(http.StatusBadRequest, dto.ValidationErrorDTO{Error: "validation_failed", Field: name, Reason: "must be RFC3339 or YYYY-MM-DD"})
	return time.Time{}, false
}
