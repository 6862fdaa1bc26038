package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/trace"
	"post-pilot/config"
)

// TokenParser 는 bearer 토큰을 검증해 uid/role 을 돌려준다.
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// RequireUser 는 JWT 를 검증하고 uid, role 을 컨텍스트에 저장한다.
// 인증되지 않은 요청은 401 로 중단된다.
func RequireUser(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		id, err := parser.Parse(token)
		if err != nil {
			config.Logger.Debugf("token parse error: %v", err)
			auth.AbortWithUnauthorized(c, errInvalidToken)
			return
		}

		c.Set(auth.ContextKeyUID, id.UID)
		c.Set(auth.ContextKeyRole, id.Role)
		trace.SetUser(c.Request.Context(), id.UID)
		c.Next()
	}
}

// RequireRole 은 RequireUser 뒤에 붙어 role 이 일치하지 않으면 403 으로 중단한다.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got := auth.Role(c); got != role {
			config.WarnWithFields("access denied", config.Fields{
				"uid":       auth.UID(c),
				"role":      got,
				"want_role": role,
				"path":      c.FullPath(),
			})
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden_insufficient_permissions"})
			return
		}
		c.Next()
	}
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const errInvalidToken = tokenError("invalid_token")
