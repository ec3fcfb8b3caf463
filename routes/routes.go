package routes

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mathacharan30/nutricompare-atme/controllers"
	"github.com/mathacharan30/nutricompare-atme/middlewares"
)

// Deps carries everything the router mounts.
type Deps struct {
	Score        *controllers.ScoreController
	Scan         *controllers.ScanController
	Chat         *controllers.ChatController
	Presentation *controllers.PresentationController
	Realtime     *controllers.RealtimeController
	Limiter      *middlewares.RateLimiter
	JWTSecret    []byte
	CORSOrigins  []string
	MaxUpload    int64
}

func SetupRouter(d Deps) *gin.Engine {
	useJSONFieldNames()

	r := gin.Default()
	r.MaxMultipartMemory = d.MaxUpload
	r.Use(middlewares.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api")
	{
		api.POST("/score", d.Score.Score)

		pres := api.Group("/presentation")
		pres.GET("/themes/:name", d.Presentation.Theme)
		pres.GET("/locales", d.Presentation.Locales)
		pres.GET("/locales/:code", d.Presentation.Locale)

		api.GET("/scans", d.Scan.List)
		api.GET("/scans/:id", d.Scan.Get)
	}

	// Routes that call external services are rate limited per client IP.
	limited := r.Group("/api")
	limited.Use(middlewares.RateLimit(d.Limiter))
	{
		limited.POST("/scan", d.Scan.Upload)
		limited.POST("/scan/capture", d.Scan.Capture)
		limited.POST("/scan/barcode", d.Scan.Barcode)
		limited.POST("/chat/sessions", d.Chat.StartSession)
	}

	chat := r.Group("/api/chat")
	chat.Use(middlewares.RateLimit(d.Limiter), middlewares.SessionAuth(d.JWTSecret))
	{
		chat.POST("/messages", d.Chat.Send)
		chat.GET("/messages", d.Chat.History)
		chat.DELETE("/sessions", d.Chat.EndSession)
	}

	r.GET("/ws/scans", d.Realtime.ScansWS)

	return r
}

// useJSONFieldNames makes validation errors name fields as clients send them.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}
