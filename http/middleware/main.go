package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/http/controller"
)

type Middlewares struct {
	SecurityHeadersMiddleware gin.HandlerFunc
	GalleryHeadersMiddleware  gin.HandlerFunc
	ReportCORSMiddleware      gin.HandlerFunc
	AuthMiddleware            gin.HandlerFunc
	RequestLogger             gin.HandlerFunc
	Recoverer                 gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	return &Middlewares{
		SecurityHeadersMiddleware: SecurityHeadersMiddleware(ctrl.Config.Security, config.CORSAllowedMethods...),
		GalleryHeadersMiddleware:  SecurityHeadersMiddleware(ctrl.Config.Security, config.GalleryAllowedMethods...),
		ReportCORSMiddleware:      ReportCORSMiddleware(),
		AuthMiddleware:            AuthMiddleware(ctrl.Verifier, ctrl.Logger),
		RequestLogger:             RequestLogger(ctrl.SlogLogger),
		Recoverer:                 Recoverer(ctrl.Logger),
	}, nil
}
