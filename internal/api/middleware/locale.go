package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

const (
	// LocaleCookieName stores the visitor's resolved locale code.
	LocaleCookieName = "locale"

	// DefaultLocale is the fallback when negotiation finds nothing usable.
	DefaultLocale = "en"

	localeCookieMaxAge = 30 * 24 * 60 * 60 // 30 days, in seconds
)

// localeCodes is the supported locale list; index-aligned with the matcher
// tags below. The default locale must come first: the matcher falls back to
// index 0 on no match or malformed input.
var localeCodes = []string{"en", "fr", "es", "de"}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.French,
	language.Spanish,
	language.German,
})

// Locale stamps the locale preference cookie. The preference comes from an
// existing valid cookie, otherwise from Accept-Language negotiation against
// the supported list; malformed values silently fall back to the default.
// The cookie is written before the rest of the chain runs, so it rides along
// on whichever response the gate ultimately produces, and it never alters
// the allow/redirect decision.
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current := ""
			if cookie, err := c.Cookie(LocaleCookieName); err == nil {
				current = cookie.Value
			}

			locale := current
			if !supportedLocale(locale) {
				locale = negotiateLocale(c.Request().Header.Get("Accept-Language"))
			}

			if current != locale {
				c.SetCookie(&http.Cookie{
					Name:   LocaleCookieName,
					Value:  locale,
					Path:   "/",
					MaxAge: localeCookieMaxAge,
				})
			}

			return next(c)
		}
	}
}

func negotiateLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	_, index := language.MatchStrings(localeMatcher, acceptLanguage)
	return localeCodes[index]
}

func supportedLocale(code string) bool {
	for _, supported := range localeCodes {
		if code == supported {
			return true
		}
	}
	return false
}
