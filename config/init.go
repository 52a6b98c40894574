package config

import (
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// InitApp builds the gin engine, the websocket hub and the cron scheduler.
func InitApp(cfg *Config) (*gin.Engine, *melody.Melody, *cron.Cron) {
	if cfg.Server.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Request-ID")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	_ = router.SetTrustedProxies(nil)

	m := melody.New()

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))

	return router, m, c
}

// ConnectCloudinary returns nil when no credentials are configured; uploads
// then answer with an error instead of failing the whole server.
func ConnectCloudinary(cfg *CloudinaryConfig) (*cloudinary.Cloudinary, error) {
	if cfg.CloudName == "" {
		return nil, nil
	}
	return cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
}
