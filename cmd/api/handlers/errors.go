package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"post-pilot/cmd/api/dto"
	"post-pilot/cmd/api/services"
	"post-pilot/cmd/api/trace"
	"post-pilot/config"
	"post-pilot/flows"
)

// respondError 는 서비스 에러를 HTTP 상태/에러 코드로 변환한다.
func respondError(c *gin.Context, err error) {
	var ve *flows.ValidationError
	var me *flows.ModelOutputError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, dto.ValidationErrorDTO{Error: "validation_failed", Field: ve.Field, Reason: ve.Reason})
	case errors.As(err, &me):
		c.JSON(http.StatusBadGateway, dto.ErrorResponseDTO{Error: "generation_failed"})
	case errors.Is(err, services.ErrFreeQuotaExhausted):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponseDTO{Error: services.ErrFreeQuotaExhausted.Error()})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponseDTO{Error: services.ErrRateLimited.Error()})
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: services.ErrPostNotFound.Error()})
	case errors.Is(err, services.ErrPostNotSchedulable):
		c.JSON(http.StatusConflict, dto.ErrorResponseDTO{Error: services.ErrPostNotSchedulable.Error()})
	default:
		fields := trace.Fields(c.Request.Context())
		fields["path"] = c.FullPath()
		fields["error"] = err.Error()
		config.ErrorWithFields("request failed", fields)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal_error"})
	}
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
}
