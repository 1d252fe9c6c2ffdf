package api

import (
	"github.com/gin-gonic/gin"
)

// SetupStaticRoutes serves the stylesheet and chat icons from dir under /app/static
func SetupStaticRoutes(r *gin.Engine, dir string) {
	r.Static("/app/static", dir)
}
