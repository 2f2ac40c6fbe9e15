package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/montanaflynn/stats"

	"github.com/i474232898/wind-data-analysis/internal/common"
	"github.com/i474232898/wind-data-analysis/internal/store"
	"github.com/i474232898/wind-data-analysis/internal/wind"
	"github.com/i474232898/wind-data-analysis/internal/wind/sources"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *wind.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"stations": service.Stations()})
	})

	st := v1.Group("/stations/:station")

	st.Post("/dataset", func(c *fiber.Ctx) error {
		var cols wind.Columns
		if err := c.BodyParser(&cols); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid dataset body: "+err.Error())
		}
		if err := validate.Struct(cols); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		data, err := wind.FromColumns(cols)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		station := wind.Station{ID: c.Params("station")}
		if rec, err := service.Latest(station.ID); err == nil {
			station = rec.Station
		}
		rec := service.Load(station, "upload", data)
		return c.Status(fiber.StatusCreated).JSON(recordView(rec))
	})

	st.Post("/refresh", func(c *fiber.Ctx) error {
		rec, err := service.Latest(c.Params("station"))
		if err != nil {
			return mapError(err)
		}
		fresh, err := service.Refresh(c.UserContext(), rec.Station)
		if err != nil {
			return mapRefreshError(err)
		}
		return c.JSON(recordView(fresh))
	})

	st.Get("/records", func(c *fiber.Ctx) error {
		history, err := service.History(c.Params("station"))
		if err != nil {
			return mapError(err)
		}
		records := make([]recordResponse, len(history))
		for i, rec := range history {
			records[i] = recordView(rec)
		}
		return c.JSON(fiber.Map{
			"station": c.Params("station"),
			"records": records,
		})
	})

	st.Get("/samples", func(c *fiber.Ctx) error {
		var q rangeQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id := c.Params("station")
		var (
			data wind.Dataset
			err  error
		)
		if q.From.IsZero() && q.To.IsZero() {
			var rec wind.Record
			if rec, err = service.Latest(id); err == nil {
				data = rec.Samples
			}
		} else {
			data, err = service.Samples(id, q.From, q.To)
		}
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"station": id,
			"count":   len(data),
			"samples": data,
		})
	})

	st.Get("/samples.csv", func(c *fiber.Ctx) error {
		rec, err := service.Latest(c.Params("station"))
		if err != nil {
			return mapError(err)
		}
		var buf bytes.Buffer
		if err := sources.WriteCSV(&buf, rec.Samples); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode csv")
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	})

	st.Get("/stats", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		s, err := e.BasicStatistics()
		if err != nil {
			return mapError(err)
		}
		return c.JSON(s)
	}))

	st.Get("/windrose", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		var q roseQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		rose, err := e.WindRose(q.Bins)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(rose)
	}))

	st.Get("/calm", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		q := thresholdQuery{Threshold: wind.DefaultCalmThreshold}
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		events, err := e.DetectCalmPeriods(q.Threshold)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(eventsView(q.Threshold, events))
	}))

	st.Get("/strong", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		q := thresholdQuery{Threshold: wind.DefaultStrongThreshold}
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		events, err := e.DetectStrongWindEvents(q.Threshold)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(eventsView(q.Threshold, events))
	}))

	st.Get("/gust", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		var q gustQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		gust, err := e.GustFactor(q.Window)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"window":      q.Window,
			"gust_factor": gust,
		})
	}))

	st.Get("/prevailing", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		p, err := e.PrevailingDirection()
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	}))

	st.Get("/daily", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		pattern, err := e.DailyPattern()
		if err != nil {
			return mapError(err)
		}
		hours := make([]hourView, 0, len(pattern))
		for _, h := range wind.SortedHours(pattern) {
			hours = append(hours, hourView{Hour: h, HourlyStats: pattern[h]})
		}
		return c.JSON(fiber.Map{"hours": hours})
	}))

	st.Get("/power", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		q := powerQuery{AirDensity: wind.DefaultAirDensity}
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		power, err := e.PowerDensity(q.AirDensity)
		if err != nil {
			return mapError(err)
		}
		mean, _ := stats.Mean(power)
		peak, _ := stats.Max(power)
		return c.JSON(fiber.Map{
			"air_density":   q.AirDensity,
			"mean":          mean,
			"max":           peak,
			"power_density": power,
		})
	}))

	st.Get("/report", withEngine(service, func(c *fiber.Ctx, e *wind.Engine) error {
		report, err := e.SummaryReport()
		if err != nil {
			return mapError(err)
		}
		return c.SendString(report)
	}))
}

// withEngine resolves the station's engine before calling h.
func withEngine(service *wind.Service, h func(*fiber.Ctx, *wind.Engine) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := service.Engine(c.Params("station"))
		if err != nil {
			return mapError(err)
		}
		return h(c, e)
	}
}

// mapError turns domain errors into HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no wind data for requested station")
	case errors.Is(err, wind.ErrEmptyDataset), errors.Is(err, wind.ErrMissingTimestamp):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wind.ErrInvalidArgument):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to analyze wind data")
	}
}

// mapRefreshError separates configuration and cancellation faults from
// upstream source failures.
func mapRefreshError(err error) error {
	switch {
	case errors.Is(err, wind.ErrNoSources):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "refresh timed out")
	case errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusRequestTimeout, "refresh canceled")
	default:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
}

type binder interface {
	bind(c *fiber.Ctx) error
}

// bindQuery parses and validates query parameters into q.
func bindQuery(c *fiber.Ctx, q binder) error {
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

type roseQuery struct {
	Bins int `validate:"min=1,max=360"`
}

func (q *roseQuery) bind(c *fiber.Ctx) (err error) {
	q.Bins, err = queryInt(c, "bins", wind.DefaultRoseBins)
	return err
}

type gustQuery struct {
	Window int `validate:"min=1"`
}

func (q *gustQuery) bind(c *fiber.Ctx) (err error) {
	q.Window, err = queryInt(c, "window", wind.DefaultGustWindow)
	return err
}

type thresholdQuery struct {
	Threshold float64 `validate:"gte=0"`
}

func (q *thresholdQuery) bind(c *fiber.Ctx) (err error) {
	q.Threshold, err = queryFloat(c, "threshold", q.Threshold)
	return err
}

type powerQuery struct {
	AirDensity float64 `validate:"gt=0"`
}

func (q *powerQuery) bind(c *fiber.Ctx) (err error) {
	q.AirDensity, err = queryFloat(c, "air_density", q.AirDensity)
	return err
}

// rangeQuery holds the optional from/to bounds of the samples endpoint.
type rangeQuery struct {
	From time.Time
	To   time.Time
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil
	}
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters must be given together")
	}

	from, err := common.ParseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := common.ParseTime(toStr)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return errors.New("to must not be before from")
	}

	r.From = from
	r.To = to
	return nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

func queryFloat(c *fiber.Ctx, key string, def float64) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(key + " must be a number")
	}
	return f, nil
}

type recordResponse struct {
	wind.Record
	Count int `json:"count"`
}

func recordView(rec wind.Record) recordResponse {
	return recordResponse{Record: rec, Count: len(rec.Samples)}
}

type hourView struct {
	Hour int `json:"hour"`
	wind.HourlyStats
}

func eventsView(threshold float64, events wind.Dataset) fiber.Map {
	return fiber.Map{
		"threshold": threshold,
		"count":     len(events),
		"samples":   events,
	}
}
