package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/auth"
	"github.com/convoisukraine/convoysbackend/config"
	"github.com/convoisukraine/convoysbackend/dto"
	"github.com/convoisukraine/convoysbackend/mail"
	"github.com/convoisukraine/convoysbackend/middleware"
	"github.com/convoisukraine/convoysbackend/store"
	"github.com/convoisukraine/convoysbackend/utils"
)

// AuthController owns the signin and password recovery flows.
type AuthController struct {
	Users   store.Users
	Tokens  *auth.TokenService
	Cookies *auth.CookieWriter
	Mailer  mail.Mailer
	Cfg     *config.Config
}

func NewAuthController(users store.Users, tokens *auth.TokenService, cookies *auth.CookieWriter, mailer mail.Mailer, cfg *config.Config) *AuthController {
	return &AuthController{Users: users, Tokens: tokens, Cookies: cookies, Mailer: mailer, Cfg: cfg}
}

// Signin handles POST /user/signin. Unknown email and wrong password are
// indistinguishable from the outside.
func (a *AuthController) Signin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SigninDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := a.Users.FindByEmail(ctx, utils.NormalizeEmail(body.Email))
		if err != nil {
			// only a missing account is a credential denial; anything else
			// is a store failure
			if errors.Is(err, apierrors.ErrNotFound) {
				apierrors.FailCode(c, http.StatusForbidden, apierrors.ErrInvalidCredentials.Error(), apierrors.CodeEmailOrPasswordInvalid)
				return
			}
			apierrors.Internal(c)
			return
		}

		if err := utils.CheckPassword(user.Password, body.Password); err != nil {
			apierrors.FailCode(c, http.StatusForbidden, apierrors.ErrInvalidCredentials.Error(), apierrors.CodeEmailOrPasswordInvalid)
			return
		}

		now := time.Now().UTC()
		user.LastLoginAt = &now
		if err := a.Users.Save(ctx, user); err != nil {
			apierrors.Internal(c)
			return
		}

		token, err := a.Tokens.IssueSession(user.ID.Hex())
		if err != nil {
			apierrors.Internal(c)
			return
		}
		a.Cookies.SetSession(c, token)

		c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "user": user.Public()})
	}
}

// SigninToken handles GET /user/signin-token: echoes a still-valid session.
func (a *AuthController) SigninToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c)
			return
		}
		token, _ := c.Cookie(auth.SessionCookieName)
		c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "user": user.Public()})
	}
}

// Logout handles POST /user/logout.
func (a *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.Cookies.Clear(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ForgotPassword handles POST /user/forgot_password. The response is
// {ok:true} whether or not the account exists.
func (a *AuthController) ForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := a.Users.FindByEmail(ctx, utils.NormalizeEmail(body.Email))
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
				return
			}
			apierrors.Internal(c)
			return
		}
		if user.Password == "" {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		token, err := auth.NewResetToken()
		if err != nil {
			apierrors.Internal(c)
			return
		}
		expires := time.Now().UTC().Add(auth.SessionTTL)
		user.ForgotPasswordResetToken = token
		user.ForgotPasswordResetExpires = &expires
		if err := a.Users.Save(ctx, user); err != nil {
			apierrors.Internal(c)
			return
		}

		link := fmt.Sprintf("%s/auth/reset?token=%s", a.Cfg.AppURL, token)
		subject := "Réinitialiser votre mot de passe"
		mailBody := fmt.Sprintf(`Une requête pour réinitialiser votre mot de passe a été effectuée.
Si elle ne vient pas de vous, veuillez avertir l'administrateur.
Si vous en êtes à l'origine, vous pouvez cliquer sur ce lien: %s`, link)
		if err := a.Mailer.SendEmail(ctx, user.Email, subject, mailBody); err != nil {
			log.Printf("forgot password mail to %s failed: %v", user.Email, err)
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ForgotPasswordReset handles POST /user/forgot_password_reset. The token is
// single use: the matching fields are cleared on success.
func (a *AuthController) ForgotPasswordReset() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordResetDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		if !utils.ValidatePassword(body.Password) {
			apierrors.FailCode(c, http.StatusBadRequest, apierrors.PasswordPolicyMessage, apierrors.CodePasswordNotValidated)
			return
		}

		ctx := c.Request.Context()
		user, err := a.Users.FindByResetToken(ctx, body.Token, time.Now().UTC())
		if err != nil {
			apierrors.FailCode(c, http.StatusBadRequest, "Le lien est non valide ou expiré", apierrors.CodeResetLinkInvalid)
			return
		}

		user.SetPassword(body.Password)
		user.ForgotPasswordResetToken = ""
		user.ForgotPasswordResetExpires = nil
		if err := a.Users.Save(ctx, user); err != nil {
			apierrors.Internal(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
