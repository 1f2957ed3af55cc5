package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/brightmont/admissions-engine/internal/middleware"
)

func callerFromContext(c *gin.Context) string {
	return middleware.CallerIdentity(c)
}
