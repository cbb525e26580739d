package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// SkipPaths are not recorded by Middleware.
var SkipPaths = []string{"/metrics", "/health"}

// Middleware records request count and duration per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, p := range SkipPaths {
				if strings.HasPrefix(c.Request().URL.Path, p) {
					return next(c)
				}
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}

			// route pattern, not the raw path, to keep label cardinality low
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
