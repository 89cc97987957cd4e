package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/http/controller"
	middlewares "github.com/notaproblemtosolve/upload-gateway/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = ctrl.Config.Security.MaxUploadBytes()

	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.RequestLogger, middles.Recoverer)

	r.GET("/healthz", ctrl.Healthz)
	r.GET("/readyz", ctrl.Readyz)

	apiRoutes := r.Group("/api/v1")
	{
		imageRoutes := apiRoutes.Group("/images")
		{
			imageRoutes.Any("/upload", middles.SecurityHeadersMiddleware, ctrl.UploadImage)
			// Preflight is answered by the header middleware before auth runs.
			imageRoutes.OPTIONS("", middles.GalleryHeadersMiddleware)
			imageRoutes.GET("", middles.GalleryHeadersMiddleware, middles.AuthMiddleware, ctrl.ListImages)
		}

		reportRoutes := apiRoutes.Group("/csp-reports")
		reportRoutes.Use(middles.ReportCORSMiddleware)
		{
			reportRoutes.Any("", ctrl.ReceiveCSPReport)
		}
	}
	return r
}
