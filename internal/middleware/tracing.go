package middleware

import (
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
)

// Tracing opens an X-Ray segment per inbound request and continues the trace
// from an incoming X-Amzn-Trace-Id header.
func Tracing(service string) echo.MiddlewareFunc {
	namer := xray.NewFixedSegmentNamer(service)
	return echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return xray.Handler(namer, next)
	})
}
