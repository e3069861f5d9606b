// @title           ChamaAí API
// @version         1.0
// @description     API маркетплейса бытовых услуг ChamaAí (документация Swagger).
// @contact.name    Suporte ChamaAí
// @contact.email   suporte@chamaai.com.br
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"chamaai_backend/internal/app"

	_ "chamaai_backend/docs"
)

func main() {
	app.Run()
}
