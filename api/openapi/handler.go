// Package openapi serves a Swagger UI over the OpenAPI document huma
// generates at runtime.
package openapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DefaultSpecPath is where huma publishes the OpenAPI 3.1 document.
const DefaultSpecPath = "/openapi.json"

var swaggerUI = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "{{.SpecPath}}",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`))

// RegisterRoutes adds the Swagger UI under /swagger, pointed at specPath.
func RegisterRoutes(e *echo.Echo, title, specPath string) error {
	if specPath == "" {
		specPath = DefaultSpecPath
	}

	var buf bytes.Buffer
	if err := swaggerUI.Execute(&buf, struct{ Title, SpecPath string }{title, specPath}); err != nil {
		return err
	}
	page := buf.String()

	e.GET("/swagger/index.html", func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
	return nil
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
