package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convoisukraine/convoysbackend/config"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "jwt"

// CookieWriter sets and clears the session cookie with the attribute profile
// of the deployment environment: development and test run cross-site
// (SameSite=None), production pins the configured domain with SameSite=Lax.
type CookieWriter struct {
	production bool
	domain     string
}

func NewCookieWriter(cfg *config.Config) *CookieWriter {
	return &CookieWriter{production: cfg.IsProduction(), domain: cfg.CookieDomain}
}

// SetSession writes the session cookie with the token.
func (w *CookieWriter) SetSession(c *gin.Context, token string) {
	http.SetCookie(c.Writer, w.build(token, int(SessionTTL.Seconds())))
}

// Clear expires the session cookie.
func (w *CookieWriter) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, w.build("", -1))
}

func (w *CookieWriter) build(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if w.production {
		cookie.SameSite = http.SameSiteLaxMode
		cookie.Domain = w.domain
	}
	return cookie
}
