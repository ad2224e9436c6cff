package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/auth"
	"github.com/convoisukraine/convoysbackend/dto"
	"github.com/convoisukraine/convoysbackend/middleware"
	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/store"
	"github.com/convoisukraine/convoysbackend/utils"
)

// UsersController owns account lifecycle endpoints.
type UsersController struct {
	Users   store.Users
	Tokens  *auth.TokenService
	Cookies *auth.CookieWriter
}

func NewUsersController(users store.Users, tokens *auth.TokenService, cookies *auth.CookieWriter) *UsersController {
	return &UsersController{Users: users, Tokens: tokens, Cookies: cookies}
}

// Create handles POST /user: public account creation followed by signin.
func (u *UsersController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if body.NewPassword != body.VerifyPassword {
			apierrors.FailCode(c, http.StatusBadRequest, "Les mots de passe ne sont pas identiques", apierrors.CodePasswordsNotMatching)
			return
		}
		if !utils.ValidatePassword(body.NewPassword) {
			apierrors.FailCode(c, http.StatusBadRequest, apierrors.PasswordPolicyMessage, apierrors.CodePasswordNotValidated)
			return
		}

		ctx := c.Request.Context()
		email := utils.NormalizeEmail(body.Email)
		if _, err := u.Users.FindByEmail(ctx, email); err == nil {
			apierrors.FailCode(c, http.StatusBadRequest, apierrors.ErrDuplicateEmail.Error(), apierrors.CodeEmailAlreadyExists)
			return
		}

		user := &models.User{
			Name:  body.Name,
			Email: email,
			Phone: strings.ToLower(strings.TrimSpace(body.Phone)),
		}
		user.SetPassword(body.NewPassword)

		if err := u.Users.Create(ctx, user); err != nil {
			// The unique index closes the race two concurrent signups open.
			if errors.Is(err, apierrors.ErrDuplicateEmail) {
				apierrors.FailCode(c, http.StatusBadRequest, err.Error(), apierrors.CodeEmailAlreadyExists)
				return
			}
			apierrors.Internal(c)
			return
		}

		token, err := u.Tokens.IssueSession(user.ID.Hex())
		if err != nil {
			apierrors.Internal(c)
			return
		}
		u.Cookies.SetSession(c, token)

		c.JSON(http.StatusOK, gin.H{"ok": true, "user": user.Public()})
	}
}

// Me handles GET /user/me.
func (u *UsersController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "user": user.Public()})
	}
}

// Update handles PUT /user: partial profile update for the signed-in user.
func (u *UsersController) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c)
			return
		}

		var body dto.UpdateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if body.Name != "" {
			user.Name = body.Name
		}
		if body.Phone != "" {
			user.Phone = strings.ToLower(strings.TrimSpace(body.Phone))
		}
		if body.Email != "" {
			user.Email = utils.NormalizeEmail(body.Email)
		}
		if body.TermsAccepted != nil {
			accepted, err := utils.ParseDate(*body.TermsAccepted)
			if err != nil {
				apierrors.BadRequest(c, err)
				return
			}
			user.TermsAccepted = accepted
		}
		if body.Location != nil {
			user.Location = models.NewGeoPoint(body.Location.Coordinates[0], body.Location.Coordinates[1])
		}
		if body.Password != "" {
			if !utils.ValidatePassword(body.Password) {
				apierrors.FailCode(c, http.StatusBadRequest, apierrors.PasswordPolicyMessage, apierrors.CodePasswordNotValidated)
				return
			}
			user.SetPassword(body.Password)
		}

		if err := u.Users.Save(c.Request.Context(), user); err != nil {
			if errors.Is(err, apierrors.ErrDuplicateEmail) {
				apierrors.FailCode(c, http.StatusBadRequest, err.Error(), apierrors.CodeEmailAlreadyExists)
				return
			}
			apierrors.Internal(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "user": user.Public()})
	}
}

// ResetPassword handles POST /user/reset_password: authenticated password
// change guarded by the current password.
func (u *UsersController) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c)
			return
		}

		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if body.NewPassword != body.VerifyPassword {
			apierrors.FailCode(c, http.StatusBadRequest, "Les mots de passe ne sont pas identiques", apierrors.CodePasswordsNotMatching)
			return
		}
		if !utils.ValidatePassword(body.NewPassword) {
			apierrors.FailCode(c, http.StatusBadRequest, apierrors.PasswordPolicyMessage, apierrors.CodePasswordNotValidated)
			return
		}

		if err := utils.CheckPassword(user.Password, body.Password); err != nil {
			apierrors.FailCode(c, http.StatusForbidden, "Mot de passe incorrect", apierrors.CodeEmailOrPasswordInvalid)
			return
		}

		user.SetPassword(body.NewPassword)
		if err := u.Users.Save(c.Request.Context(), user); err != nil {
			apierrors.Internal(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "user": user.Public()})
	}
}

// Delete handles DELETE /user/:_id.
func (u *UsersController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("_id"))
		if err != nil {
			apierrors.BadRequest(c, err)
			return
		}
		if err := u.Users.Delete(c.Request.Context(), id); err != nil {
			apierrors.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
