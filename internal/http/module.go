package http

import "github.com/gin-gonic/gin"

// RouterContext carries the route groups a module can mount handlers on.
type RouterContext struct {
	// Public requires no authentication.
	Public *gin.RouterGroup
	// API requires a valid access token.
	API *gin.RouterGroup
}

// Module is anything that mounts HTTP routes.
type Module interface {
	Mount(rc RouterContext)
}
