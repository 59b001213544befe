package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves Swagger UI pointed at the document mounted on specURL.
func Handler(specURL string) http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(specURL))
}
