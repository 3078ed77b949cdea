package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hermanar_app/internal/models"
	"hermanar_app/internal/repository"
)

// FamilyHandler bridges HTTP requests to the family repository.
type FamilyHandler struct {
	families *repository.FamilyRepository
	members  *repository.MemberRepository
}

func NewFamilyHandler(families *repository.FamilyRepository, members *repository.MemberRepository) *FamilyHandler {
	return &FamilyHandler{families: families, members: members}
}

// List serves all families; ?q= switches to substring search by name.
func (h *FamilyHandler) List(c echo.Context) error {
	if q := c.QueryParam("q"); q != "" {
		families, err := h.families.Search(q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, families)
	}

	families, err := h.families.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, families)
}

// Get serves one family or 404.
func (h *FamilyHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	family, err := h.families.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, family)
}

// Create inserts a family and returns the new id.
func (h *FamilyHandler) Create(c echo.Context) error {
	var family models.Family
	if err := c.Bind(&family); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid family payload")
	}
	id, err := h.families.Create(&family)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

// Update replaces a family record.
func (h *FamilyHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var family models.Family
	if err := c.Bind(&family); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid family payload")
	}
	if err := h.families.Update(id, &family); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a family; blocked while active members reference it.
func (h *FamilyHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.families.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats serves the member counts for one family.
func (h *FamilyHandler) Stats(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	stats, err := h.families.Stats(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// WithAddress serves the family plus its primary-address projection.
func (h *FamilyHandler) WithAddress(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	family, err := h.families.WithAddress(id)
	if err != nil {
		return err
	}
	if family == nil {
		return echo.NewHTTPError(http.StatusNotFound, "familia no encontrada")
	}
	return c.JSON(http.StatusOK, family)
}

// Members lists the family's members ordered by name.
func (h *FamilyHandler) Members(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	members, err := h.members.ListByFamily(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}
