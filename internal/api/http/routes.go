package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/atmoslens/weather-dashboard/internal/apperrors"
	"github.com/atmoslens/weather-dashboard/internal/history"
	"github.com/atmoslens/weather-dashboard/internal/search"
	"github.com/atmoslens/weather-dashboard/internal/weather"
)

var validate = validator.New()

// ErrorHandler is the centralized fiber error handler. It maps the service's
// typed errors to their HTTP statuses and everything else to 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
			"error":   true,
			"type":    appErr.Type,
			"message": appErr.Message,
		})
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, searches *search.Store) {
	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return apperrors.New(apperrors.InvalidArgument, "city query parameter is required")
		}

		fc, err := service.Lookup(c.Context(), city)
		if err != nil {
			return err
		}
		return c.JSON(fc)
	})

	api.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		points, err := service.History(req.City, req.From, req.To)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return err
		}

		return c.JSON(fiber.Map{
			"city": req.City,
			"from": req.From,
			"to":   req.To,
			"data": points,
		})
	})

	api.Get("/recent-searches", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", search.DefaultMaxRecent)
		return c.JSON(searches.List(limit))
	})

	api.Post("/recent-searches", func(c *fiber.Ctx) error {
		var req recentSearchBody
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid search data")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entry, err := searches.Record(req.City, req.Country)
		if err != nil {
			if errors.Is(err, search.ErrEmptyCity) {
				return apperrors.New(apperrors.InvalidArgument, "city must not be empty")
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	api.Delete("/recent-searches", func(c *fiber.Ctx) error {
		searches.Clear()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// recentSearchBody is the POST /api/recent-searches request body.
type recentSearchBody struct {
	City    string `json:"city" validate:"required"`
	Country string `json:"country"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City string    `validate:"required"`
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.City = c.Query("city")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
