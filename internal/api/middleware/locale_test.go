package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runLocale(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Locale()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func localeCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	for _, cookie := range res.Cookies() {
		if cookie.Name == LocaleCookieName {
			return cookie
		}
	}
	return nil
}

func TestLocale_NegotiatesFromAcceptLanguage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.5")

	cookie := localeCookie(t, runLocale(t, req))
	if cookie == nil {
		t.Fatalf("locale cookie not set")
	}
	if cookie.Value != "fr" {
		t.Fatalf("locale = %q, want fr", cookie.Value)
	}
	if cookie.MaxAge != localeCookieMaxAge {
		t.Fatalf("max-age = %d, want %d", cookie.MaxAge, localeCookieMaxAge)
	}
	if cookie.Path != "/" {
		t.Fatalf("path = %q, want /", cookie.Path)
	}
}

func TestLocale_RegionalVariantCollapses(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9")

	cookie := localeCookie(t, runLocale(t, req))
	if cookie == nil || cookie.Value != "es" {
		t.Fatalf("expected es, got %v", cookie)
	}
}

func TestLocale_NoHeaderFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	cookie := localeCookie(t, runLocale(t, req))
	if cookie == nil || cookie.Value != DefaultLocale {
		t.Fatalf("expected default locale, got %v", cookie)
	}
}

func TestLocale_MalformedHeaderFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", ";;;not a language;;;")

	cookie := localeCookie(t, runLocale(t, req))
	if cookie == nil || cookie.Value != DefaultLocale {
		t.Fatalf("expected default locale, got %v", cookie)
	}
}

func TestLocale_UnsupportedLanguageFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja-JP")

	cookie := localeCookie(t, runLocale(t, req))
	if cookie == nil || cookie.Value != DefaultLocale {
		t.Fatalf("expected default locale, got %v", cookie)
	}
}

func TestLocale_ExistingValidCookieUntouched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr")
	req.AddCookie(&http.Cookie{Name: LocaleCookieName, Value: "de"})

	if cookie := localeCookie(t, runLocale(t, req)); cookie != nil {
		t.Fatalf("existing preference should not be rewritten, got %v", cookie)
	}
}

func TestLocale_InvalidCookieRenegotiated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE")
	req.AddCookie(&http.Cookie{Name: LocaleCookieName, Value: "klingon"})

	cookie := localeCookie(t, runLocale(t, req))
	if cookie == nil || cookie.Value != "de" {
		t.Fatalf("expected renegotiated de, got %v", cookie)
	}
}
