package middleware

import (
	"fmt"
	"strings"

	"plume/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request, propagates incoming
// trace context, and tags the span with the engagement entities the
// matched route touched.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, fmt.Sprintf("%s %s", c.Method(), c.Path()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.url", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
				attribute.String("http.user_agent", c.Get("User-Agent")),
			),
		)
		defer span.End()

		c.Locals("traceID", span.SpanContext().TraceID().String())
		c.Locals("spanID", span.SpanContext().SpanID().String())
		c.Set("X-Trace-ID", span.SpanContext().TraceID().String())

		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}

		c.SetUserContext(ctx)

		err := c.Next()

		span.SetAttributes(
			attribute.String("http.route", c.Route().Path),
			attribute.Int("http.status_code", c.Response().StatusCode()),
		)
		span.SetAttributes(routeAttributes(c)...)
		if err != nil {
			span.RecordError(err)
		}

		return err
	}
}

// routeAttributes maps the matched route's params and the authenticated
// caller onto domain span attributes.
func routeAttributes(c *fiber.Ctx) []attribute.KeyValue {
	var attrs []attribute.KeyValue

	if userID, ok := c.Locals("userID").(uint); ok {
		attrs = append(attrs, attribute.Int("enduser.id", int(userID)))
	}
	if id := c.Params("id"); id != "" {
		// :id names a post on post routes and the followee on
		// /users/:id/follow.
		if strings.HasPrefix(c.Route().Path, "/api/posts") {
			attrs = append(attrs, attribute.String("post.id", id))
		} else {
			attrs = append(attrs, attribute.String("target.user_id", id))
		}
	}
	if username := c.Params("username"); username != "" {
		attrs = append(attrs, attribute.String("profile.username", username))
	}
	if userID := c.Params("userId"); userID != "" {
		attrs = append(attrs, attribute.String("likes.user_id", userID))
	}
	return attrs
}
