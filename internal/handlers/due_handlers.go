package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"hermanar_app/internal/models"
	"hermanar_app/internal/repository"
	"hermanar_app/internal/services"
)

// DueHandler bridges HTTP requests to the due repository and the statistics
// service. Every write invalidates the cached statistics.
type DueHandler struct {
	dues  *repository.DueRepository
	stats *services.StatsService
}

func NewDueHandler(dues *repository.DueRepository, stats *services.StatsService) *DueHandler {
	return &DueHandler{dues: dues, stats: stats}
}

// List serves dues: all by default, ?member= for one member, ?year= for one
// year, ?pending=true for the unpaid backlog.
func (h *DueHandler) List(c echo.Context) error {
	if memberStr := c.QueryParam("member"); memberStr != "" {
		memberID, err := strconv.ParseUint(memberStr, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
		}
		dues, err := h.dues.ListByMember(uint(memberID))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dues)
	}
	if yearStr := c.QueryParam("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		dues, err := h.dues.ListByYear(year)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dues)
	}
	if c.QueryParam("pending") == "true" {
		dues, err := h.dues.ListPending()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dues)
	}

	dues, err := h.dues.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dues)
}

// Create inserts a single due.
func (h *DueHandler) Create(c echo.Context) error {
	var due models.Due
	if err := c.Bind(&due); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid due payload")
	}
	id, err := h.dues.Create(&due)
	if err != nil {
		return err
	}
	h.stats.Invalidate(c.Request().Context())
	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

// Update replaces a due record.
func (h *DueHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var due models.Due
	if err := c.Bind(&due); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid due payload")
	}
	if err := h.dues.Update(id, &due); err != nil {
		return err
	}
	h.stats.Invalidate(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// MarkPaid applies the narrow paid transition.
func (h *DueHandler) MarkPaid(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req MarkPaidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.dues.MarkPaid(id, req.PaymentDate, req.PaymentMethod); err != nil {
		return err
	}
	h.stats.Invalidate(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a due record.
func (h *DueHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.dues.Delete(id); err != nil {
		return err
	}
	h.stats.Invalidate(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Generate bulk-creates the quarter's dues for all active members.
func (h *DueHandler) Generate(c echo.Context) error {
	var req GenerateDuesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	created, err := h.dues.GenerateForQuarter(req.Year, req.Quarter, req.Amount)
	if err != nil {
		return err
	}
	h.stats.Invalidate(c.Request().Context())
	return c.JSON(http.StatusOK, CreatedResponse{Created: created})
}

// Statistics serves the aggregate report, optionally scoped with ?year=.
func (h *DueHandler) Statistics(c echo.Context) error {
	var year *int
	if yearStr := c.QueryParam("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = &y
	}
	stats, err := h.stats.Get(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
