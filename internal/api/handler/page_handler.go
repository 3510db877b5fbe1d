package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webstarter/identity-gateway/internal/api/middleware"
)

// PageHandler renders the minimal HTML shells behind the gate's browser
// semantics. The real frontend lives elsewhere; these pages exist so the
// redirect decision table has navigational targets.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Name}}<p>Signed in as {{.Name}}</p>{{end}}
</body>
</html>
`))

type pageData struct {
	Title string
	Name  string
}

func (h *PageHandler) render(c echo.Context, title string) error {
	data := pageData{Title: title}
	if claims, ok := middleware.ClaimsFrom(c); ok {
		data.Name = claims.Name
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return pageTemplate.Execute(c.Response(), data)
}

func (h *PageHandler) Dashboard(c echo.Context) error      { return h.render(c, "Dashboard") }
func (h *PageHandler) Profile(c echo.Context) error        { return h.render(c, "Profile") }
func (h *PageHandler) Settings(c echo.Context) error       { return h.render(c, "Settings") }
func (h *PageHandler) SignIn(c echo.Context) error         { return h.render(c, "Sign in") }
func (h *PageHandler) SignUp(c echo.Context) error         { return h.render(c, "Sign up") }
func (h *PageHandler) ForgotPassword(c echo.Context) error { return h.render(c, "Forgot password") }
func (h *PageHandler) ResetPassword(c echo.Context) error  { return h.render(c, "Reset password") }
