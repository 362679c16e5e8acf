package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// SetupStaticRoutes sets up routes for serving the stylesheet and other assets
func SetupStaticRoutes(r *gin.Engine) error {
	assets, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return err
	}
	r.StaticFS("/assets", http.FS(assets))
	return nil
}
