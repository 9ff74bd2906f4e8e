package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type CorsHandler struct {
	allowedOrigins map[string]bool
	allowAll       bool
}

func NewCorsHandler(origins []string) *CorsHandler {
	h := &CorsHandler{allowedOrigins: map[string]bool{}}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			h.allowAll = true
			continue
		}
		if o != "" {
			h.allowedOrigins[o] = true
		}
	}
	return h
}

func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if h.allowAll {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	} else if h.allowedOrigins[origin] {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Vary", "Origin")
	}
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(200)
		return
	}
	c.Next()
}
