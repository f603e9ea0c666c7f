package imports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"csv-importer/core/logger"
	"csv-importer/core/reconcile"
	"csv-importer/feature/profile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for imports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the import routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/imports")
	group.Get("/profiles", h.HandleListProfiles)
	group.Get("/sources", h.HandleListSources)
	group.Get("/:profile/check", h.HandleCheck)
	group.Post("/:profile/sync", h.HandleSync)
	group.Post("/:profile/bulk", h.HandleBulk)
}

// HandleListProfiles lists the registered import profiles.
// @Summary List Profiles
// @Description Lists every import profile with its table, key and field mapping.
// @Tags imports
// @Produce json
// @Success 200 {array} profile.Profile "Profiles"
// @Router /imports/profiles [get]
func (h *Handler) HandleListProfiles(c *fiber.Ctx) error {
	return c.JSON(h.service.Profiles())
}

// HandleListSources lists the CSV objects available in storage.
// @Summary List Sources
// @Description Lists the CSV objects (plain or gzip) under the configured source prefix.
// @Tags imports
// @Produce json
// @Success 200 {array} storage.ObjectSummary "Sources"
// @Failure 503 {object} map[string]string "Storage Unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /imports/sources [get]
func (h *Handler) HandleListSources(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sources, err := h.service.ListSources(c.Context())
	if err != nil {
		l.Error("Listing sources failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sources)
}

// HandleCheck compares a profile with its live table.
// @Summary Check Profile Schema
// @Description Verifies that the profile's table exists and has every mapped column.
// @Tags imports
// @Produce json
// @Param profile path string true "Profile name"
// @Success 200 {object} SchemaReport "Schema Report"
// @Failure 404 {object} map[string]string "Unknown Profile"
// @Failure 503 {object} map[string]string "Database Unavailable"
// @Router /imports/{profile}/check [get]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Check(c.Params("profile"))
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema mismatch", zap.String("profile", report.Profile), zap.Strings("missing", report.MissingColumns))
	}
	return c.JSON(report)
}

// HandleSync reconciles a CSV with the profile's table.
// @Summary Sync CSV
// @Description Reconciles the CSV in the request body (or the named storage object) with the profile's table: changed rows are updated and new rows inserted.
// @Tags imports
// @Accept text/csv
// @Produce json
// @Param profile path string true "Profile name"
// @Param dry_run query boolean false "Classify rows without writing"
// @Param object query string false "Storage object key to read instead of the body"
// @Success 200 {object} Report "Run Report"
// @Failure 400 {object} map[string]interface{} "Invalid Input"
// @Failure 404 {object} map[string]interface{} "Unknown Profile"
// @Failure 409 {object} map[string]interface{} "Run In Progress"
// @Failure 422 {object} map[string]interface{} "Rejected Input"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /imports/{profile}/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	return h.handleRun(c, ModeSync)
}

// HandleBulk inserts every CSV row without reconciling.
// @Summary Bulk Insert CSV
// @Description Inserts the CSV rows in chunks of multi-row INSERT statements. Existing rows are not checked.
// @Tags imports
// @Accept text/csv
// @Produce json
// @Param profile path string true "Profile name"
// @Param dry_run query boolean false "Count rows without writing"
// @Param object query string false "Storage object key to read instead of the body"
// @Success 200 {object} Report "Run Report"
// @Failure 400 {object} map[string]interface{} "Invalid Input"
// @Failure 404 {object} map[string]interface{} "Unknown Profile"
// @Failure 409 {object} map[string]interface{} "Run In Progress"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /imports/{profile}/bulk [post]
func (h *Handler) HandleBulk(c *fiber.Ctx) error {
	return h.handleRun(c, ModeBulk)
}

func (h *Handler) handleRun(c *fiber.Ctx, mode string) error {
	name := c.Params("profile")
	dryRun := c.QueryBool("dry_run", false)
	l := logger.WithRayID(h.service.logger, c).With(zap.String("profile", name), zap.String("mode", mode))

	ctx := c.UserContext()
	opts := RunOptions{DryRun: dryRun, Source: "request"}

	var input io.Reader
	if key := c.Query("object"); key != "" {
		obj, err := h.service.OpenSource(ctx, key)
		if err != nil {
			l.Error("Opening source failed", zap.String("object", key), zap.Error(err))
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		defer obj.Close()
		input = obj
		opts.Source = key
	} else if body := c.Body(); len(body) > 0 {
		input = bytes.NewReader(body)
	}

	var (
		report *Report
		err    error
	)
	if mode == ModeBulk {
		report, err = h.service.Bulk(ctx, name, input, opts)
	} else {
		report, err = h.service.Sync(ctx, name, input, opts)
	}
	if err != nil {
		l.Error("Import run failed", zap.Error(err))
		resp := fiber.Map{"error": err.Error()}
		if report != nil {
			resp["report"] = report
		}
		return c.Status(statusFor(err)).JSON(resp)
	}
	return c.JSON(report)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var parseErr *csv.ParseError
	switch {
	case errors.Is(err, profile.ErrUnknownProfile):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNoInput), errors.As(err, &parseErr), errors.Is(err, reconcile.ErrMissingConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrRunInProgress):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrRequiredValueEmpty), errors.Is(err, reconcile.ErrKeyCollision):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrDatabaseUnavailable), errors.Is(err, ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
