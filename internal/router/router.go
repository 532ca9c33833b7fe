package router

import (
	"fmt"

	"recipe-api/internal/cache"
	"recipe-api/internal/database"
	"recipe-api/internal/handler"
	"recipe-api/internal/handler/recipes"
	"recipe-api/internal/handler/users"
	"recipe-api/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Deps 是註冊路由所需的相依元件
type Deps struct {
	DB        database.DB
	Cache     cache.Cache
	Images    recipes.ImageStore
	ImageJobs recipes.ImageJobs
	Limiter   *middleware.IPRateLimiter
	Gatherer  prometheus.Gatherer
	Log       *zap.Logger

	TokenTTL       users.TokenTTL
	MediaURL       string
	MediaRoot      string
	MaxUploadBytes int64
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache), middleware.RequireAuth)

	// 註冊與取得 token，token 端點依 IP 限流
	limited := middleware.RateLimit(d.Limiter, d.Log)
	api.POST("/users", users.CreateUserHandler(d.DB))
	api.POST("/users/token", users.TokenHandler(d.DB, d.Cache, d.TokenTTL), limited)
	api.POST("/users/token/refresh", users.RefreshTokenHandler(d.DB, d.Cache, d.TokenTTL), limited)

	// 當前使用者
	me := api.Group("/users/me", middleware.RequireAuth)
	me.GET("", users.GetMeHandler(d.DB))
	me.PATCH("", users.UpdateMeHandler(d.DB))

	tags := api.Group("/tags", middleware.RequireAuth)
	tags.GET("", recipes.ListTagsHandler(d.DB))
	tags.POST("", recipes.CreateTagHandler(d.DB))

	ingredients := api.Group("/ingredients", middleware.RequireAuth)
	ingredients.GET("", recipes.ListIngredientsHandler(d.DB))
	ingredients.POST("", recipes.CreateIngredientHandler(d.DB))

	rs := api.Group("/recipes", middleware.RequireAuth)
	rs.GET("", recipes.ListRecipesHandler(d.DB))
	rs.POST("", recipes.CreateRecipeHandler(d.DB))
	rs.GET("/:id", recipes.GetRecipeHandler(d.DB, d.Images))
	rs.PUT("/:id", recipes.UpdateRecipeHandler(d.DB))
	rs.PATCH("/:id", recipes.PatchRecipeHandler(d.DB))
	rs.DELETE("/:id", recipes.DeleteRecipeHandler(d.DB, d.ImageJobs))
	// multipart 本身另有開銷，整體上限多留 1 MiB
	rs.POST("/:id/image", recipes.UploadImageHandler(d.DB, d.Images, d.ImageJobs, d.MaxUploadBytes),
		echomw.BodyLimit(fmt.Sprintf("%dB", d.MaxUploadBytes+1<<20)))

	// 上傳的圖片
	e.Static(d.MediaURL, d.MediaRoot)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
