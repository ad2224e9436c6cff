package middleware

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/auth"
	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/store"
)

// UserKey is the context key holding the authenticated *models.User.
const UserKey = "user"

// AuthMiddleware resolves the session cookie to a user identity. Missing
// cookie, bad signature, expired token and deleted user all produce the
// same 401 so the cause cannot be probed.
func AuthMiddleware(tokens *auth.TokenService, users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(auth.SessionCookieName)
		if err != nil || tokenStr == "" {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		userID, err := tokens.VerifySession(tokenStr)
		if err != nil {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		id, err := bson.ObjectIDFromHex(userID)
		if err != nil {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
