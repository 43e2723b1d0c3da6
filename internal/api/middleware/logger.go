package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request after it has been served
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		msg := ""
		if len(c.Errors) > 0 {
			msg = " " + c.Errors.String()
		}
		log.Printf("API: %s %s %d %s%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), msg)
	}
}
