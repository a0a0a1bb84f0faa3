// @title           Onversed API
// @version         1.0
// @description     Multi-tenant catalog backend: companies, teams, items, collections.
// @contact.name    Onversed
// @contact.email   hello@onversed.com
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import (
	_ "onversed_backend/docs"
	"onversed_backend/internal/app"
)

func main() {
	app.Run()
}
