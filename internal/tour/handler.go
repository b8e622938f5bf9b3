package tour

import (
	"errors"
	"net/http"
	"strconv"

	"tripmarket/internal/api"
	"tripmarket/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func tourIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("tourID"))
	if err != nil || id <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid tour ID")
		return 0, false
	}
	return id, true
}

// CreateTour godoc
// @Summary      Create tour
// @Tags         tours
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateTourRequest  true  "Tour data"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/tours [post]
func (h *Handler) CreateTour(c *gin.Context) {
	var req CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.service.CreateTour(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidTour) {
			api.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to create tour")
		return
	}

	api.Created(c, t)
}

// ListTours godoc
// @Summary      List tours
// @Description  Public listing shows active tours only; admins see all.
// @Tags         tours
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  api.Response
// @Router       /tours [get]
func (h *Handler) ListTours(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	role, _ := auth.GetUserRole(c)
	activeOnly := role != auth.RoleAdmin

	tours, total, err := h.service.ListTours(c.Request.Context(), activeOnly, page, limit)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to fetch tours")
		return
	}

	api.Paginated(c, tours, api.NewPagination(page, limit, total))
}

// GetTour godoc
// @Summary      Get tour
// @Tags         tours
// @Produce      json
// @Param        tourID  path      int  true  "Tour ID"
// @Success      200     {object}  api.Response
// @Failure      404     {object}  api.ErrorResponse
// @Router       /tours/{tourID} [get]
func (h *Handler) GetTour(c *gin.Context) {
	id, ok := tourIDParam(c)
	if !ok {
		return
	}

	t, err := h.service.GetTour(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			api.Error(c, http.StatusNotFound, "Tour not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load tour")
		return
	}

	api.OK(c, t)
}

// DeactivateTour godoc
// @Summary      Deactivate tour
// @Description  Hides the tour from public listings. Existing bookings keep their reference.
// @Tags         tours
// @Security     BearerAuth
// @Produce      json
// @Param        tourID  path      int  true  "Tour ID"
// @Success      200     {object}  api.Response
// @Failure      404     {object}  api.ErrorResponse
// @Router       /admin/tours/{tourID}/deactivate [post]
func (h *Handler) DeactivateTour(c *gin.Context) {
	id, ok := tourIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateTour(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTourNotFound) {
			api.Error(c, http.StatusNotFound, "Tour not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to deactivate tour")
		return
	}

	api.OKMessage(c, nil, "Tour deactivated")
}
