// Package httpapi exposes the weather resolution pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kurosakiaduma/weather-app-pawa/internal/weather"
)

var validate = validator.New()

// WeatherResolver is the slice of the pipeline the HTTP layer needs.
type WeatherResolver interface {
	Resolve(ctx context.Context, city string) (weather.WeatherSnapshot, error)
}

// cityQuery holds the single query parameter of the weather endpoint.
// Validation happens here, before the pipeline is ever invoked.
type cityQuery struct {
	City string `validate:"required,min=1,max=100"`
}

// RequestID attaches a request ID to the context and response headers.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals("requestid", id)
		c.Set(fiber.HeaderXRequestID, id)
		return c.Next()
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, resolver WeatherResolver, log *zap.SugaredLogger) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			log.Warnw("weather request validation failed",
				"requestId", c.Locals("requestid"),
				"error", err)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": "Validation error",
				"errors":  validationMessages(err),
			})
		}

		snapshot, err := resolver.Resolve(c.UserContext(), q.City)
		if err != nil {
			return respondError(c, log, q.City, err)
		}

		return c.JSON(snapshot)
	})
}

// respondError maps the resolution error taxonomy onto HTTP statuses:
// NotFound and ValidationError are client faults, the rest service faults.
func respondError(c *fiber.Ctx, log *zap.SugaredLogger, city string, err error) error {
	var resErr *weather.Error
	if !errors.As(err, &resErr) {
		log.Errorw("weather resolution failed with unclassified error",
			"requestId", c.Locals("requestid"),
			"city", city,
			"error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "internal error",
		})
	}

	log.Warnw("weather resolution failed",
		"requestId", c.Locals("requestid"),
		"city", city,
		"kind", resErr.Kind,
		"error", resErr)

	return c.Status(resErr.HTTPStatus).JSON(fiber.Map{
		"success": false,
		"kind":    resErr.Kind,
		"message": resErr.Message,
	})
}

func validationMessages(err error) []string {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, "city is required")
		case "max":
			msgs = append(msgs, "city must be at most 100 characters")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return msgs
}
