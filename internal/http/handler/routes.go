package handler

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exampleapi/docs"
	"exampleapi/internal/dto"
	"exampleapi/internal/service"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate between HTTP and the service; no business logic lives here.
func RegisterRoutes(app *fiber.App, svc service.ExampleService, gatherer prometheus.Gatherer, checks ...Checker) {
	app.Get("/health", HealthCheck(checks...))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))

	app.Post("/examples", CreateExample(svc))
	app.Get("/resources/:id", GetResource(svc))

	app.Get("/swagger/*", Swagger())
}

// Swagger serves the Swagger UI. Host and schemes are left empty in the document
// so the UI targets whatever origin served it.
func Swagger() fiber.Handler {
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.Schemes = []string{}
	return swagger.HandlerDefault
}

// HealthCheck runs every readiness check with a short timeout.
//
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(checks ...Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the Prometheus registry.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// CreateExample creates an Example from the JSON body.
//
// @Summary Create an example
// @Tags examples
// @Accept json
// @Produce json
// @Param request body dto.ExampleRequest true "example details"
// @Success 201 {object} dto.ExampleResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /examples [post]
func CreateExample(svc service.ExampleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.ExampleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		e, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(dto.FromExample(e))
	}
}

// GetResource proxies a resource read from the external service.
//
// @Summary Fetch an external resource
// @Tags resources
// @Produce plain
// @Param id path string true "resource id"
// @Success 200 {string} string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /resources/{id} [get]
func GetResource(svc service.ExampleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Params returns the raw segment; the client escapes the decoded id itself.
		id, err := url.PathUnescape(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "malformed id")
		}

		body, err := svc.FetchResource(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
			case errors.Is(err, service.ErrResourceNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		c.Type("txt", "utf-8")
		return c.SendString(body)
	}
}
