package server

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// CurrentUser — идентичность из внешнего identity-коллаборатора.
// Ядро доверяет ей как источнику истины для ADMIN-проверок.
type CurrentUser struct {
	ID              string
	Role            string
	OrganizationIDs []string
}

const currentUserKey = "currentUser"

// AuthMiddleware разбирает bearer-токен и кладёт CurrentUser в контекст.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user := CurrentUser{}
		if sub, ok := claims["sub"].(string); ok {
			user.ID = sub
		}
		if role, ok := claims["role"].(string); ok {
			user.Role = role
		}
		if orgs, ok := claims["org_ids"].([]interface{}); ok {
			for _, o := range orgs {
				if id, ok := o.(string); ok {
					user.OrganizationIDs = append(user.OrganizationIDs, id)
				}
			}
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func getCurrentUser(c *gin.Context) (CurrentUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return CurrentUser{}, false
	}
	user, ok := v.(CurrentUser)
	return user, ok
}

// RequireAdmin пропускает только администраторов, состоящих в организации
// из пути запроса.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getCurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		orgID := c.Param("orgId")
		if orgID != "" && !memberOf(user, orgID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a member of organization"})
			return
		}
		c.Next()
	}
}

func memberOf(user CurrentUser, orgID string) bool {
	for _, id := range user.OrganizationIDs {
		if id == orgID {
			return true
		}
	}
	return false
}
