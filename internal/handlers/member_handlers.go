package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"hermanar_app/internal/models"
	"hermanar_app/internal/repository"
	"hermanar_app/internal/services"
)

// MemberHandler bridges HTTP requests to the member repository and the
// registration workflow.
type MemberHandler struct {
	members *repository.MemberRepository
	service *services.MemberService
}

func NewMemberHandler(members *repository.MemberRepository, service *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members, service: service}
}

// List serves all members; ?q= switches to substring search and
// ?active=true to the active subset.
func (h *MemberHandler) List(c echo.Context) error {
	if q := c.QueryParam("q"); q != "" {
		members, err := h.members.Search(q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, members)
	}
	if c.QueryParam("active") == "true" {
		members, err := h.members.ListActive()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, members)
	}

	members, err := h.members.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// Get serves one member or 404.
func (h *MemberHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	member, err := h.members.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// Create registers a member and returns the new id.
func (h *MemberHandler) Create(c echo.Context) error {
	var member models.Member
	if err := c.Bind(&member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member payload")
	}
	id, err := h.members.Create(&member)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

// CreateWithFamily runs the composite registration workflow.
func (h *MemberHandler) CreateWithFamily(c echo.Context) error {
	var req CreateMemberWithFamilyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	id, err := h.service.CreateWithFamily(&req.Member, req.NewFamilyName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

// Update replaces a member record.
func (h *MemberHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var member models.Member
	if err := c.Bind(&member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member payload")
	}
	if err := h.members.Update(id, &member); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateFamily relinks or unlinks the member's family.
func (h *MemberHandler) UpdateFamily(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateMemberFamilyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.members.UpdateFamily(id, req.FamilyID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a member permanently, dues included.
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.members.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Deactivate is the preferred soft delete.
func (h *MemberHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.members.SetInactive(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
