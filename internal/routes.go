package internal

import (
	"net/http"

	"ptd/internal/controllers"
	"ptd/internal/providers"
	"ptd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/timers", http.HandlerFunc(apiController.GetTimers))
	routers.Get("/alerts", http.HandlerFunc(apiController.GetAlerts))
	routers.Post("/extend", http.HandlerFunc(apiController.ExtendTimer))
	routers.Post("/alerts/ack", http.HandlerFunc(apiController.AcknowledgeAlert))
	return routers
}
