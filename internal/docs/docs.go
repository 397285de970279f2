package docs

import (
	"embed"
	"net/http"
)

//go:embed openapi.yaml swagger.html
var assets embed.FS

// OpenAPIHandler sirve el documento OpenAPI de la API de items.
func OpenAPIHandler() http.HandlerFunc {
	return serveAsset("openapi.yaml", "application/yaml; charset=utf-8")
}

// SwaggerUIHandler sirve la UI interactiva que consume openapi.yaml.
func SwaggerUIHandler() http.HandlerFunc {
	return serveAsset("swagger.html", "text/html; charset=utf-8")
}

func serveAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := assets.ReadFile(name)
		if err != nil {
			http.Error(w, name+" not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
