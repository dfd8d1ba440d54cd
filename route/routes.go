package route

import (
	"github.com/gin-gonic/gin"

	"github.com/thyagolima23/cozinha-backend/controller"
	"github.com/thyagolima23/cozinha-backend/metrics"
	"github.com/thyagolima23/cozinha-backend/utils"
)

type Controllers struct {
	Auth   *controller.AuthController
	Dishes *controller.DishController
	Votes  *controller.VoteController
	Health *controller.HealthController
}

func Register(router *gin.Engine, ctrl Controllers, authn utils.Authenticator) {
	router.POST("/signup", ctrl.Auth.Signup)
	router.POST("/signin", ctrl.Auth.Signin)

	router.POST("/votacao", ctrl.Votes.CastVote)
	router.GET("/votacao", ctrl.Votes.DailyTally)
	router.GET("/votacao/exportar", ctrl.Votes.ExportDailyTally)

	router.GET("/pratos", ctrl.Dishes.ListAll)
	router.GET("/pratos/usuario/:id_usuario", ctrl.Dishes.ListByOwner)
	router.GET("/pratos/buscar", utils.OptionalCookMiddleware(authn), ctrl.Dishes.Search)

	dishGroup := router.Group("/pratos")
	dishGroup.Use(utils.CookMiddleware(authn))
	{
		dishGroup.POST("", ctrl.Dishes.Create)
		dishGroup.PUT("/:id", ctrl.Dishes.Update)
		dishGroup.DELETE("/:id", ctrl.Dishes.Delete)
		dishGroup.POST("/importar", ctrl.Dishes.Import)
	}

	if ctrl.Health != nil {
		router.GET("/health", ctrl.Health.Health)
	}
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
