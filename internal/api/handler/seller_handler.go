package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

// SellerHandler handles HTTP requests for seller account operations.
type SellerHandler struct {
	service ports.SellerService
}

func NewSellerHandler(service ports.SellerService) *SellerHandler {
	return &SellerHandler{service: service}
}

// Create handles POST /seller/.
//
// @Summary      Register a new seller
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        body  body      createSellerRequest  true  "Seller registration details"
// @Success      201   {object}  sellerResponse
// @Failure      400   {object}  errorResponse
// @Router       /seller/ [post]
func (h *SellerHandler) Create(c echo.Context) error {
	var req createSellerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	seller, err := h.service.Register(c.Request().Context(), ports.RegisterSellerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSellerResponse(seller))
}

// List handles GET /seller/.
//
// @Summary      List all sellers
// @Tags         seller
// @Produce      json
// @Success      200  {object}  listSellersResponse
// @Router       /seller/ [get]
func (h *SellerHandler) List(c echo.Context) error {
	sellers, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := listSellersResponse{Sellers: make([]sellerResponse, 0, len(sellers))}
	for _, s := range sellers {
		resp.Sellers = append(resp.Sellers, toSellerResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /seller/:id — the profile-details view including books.
//
// @Summary      Get a seller with their books
// @Tags         seller
// @Produce      json
// @Param        id   path      int  true  "Seller id"
// @Success      200  {object}  sellerDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /seller/{id} [get]
func (h *SellerHandler) Get(c echo.Context) error {
	id, err := sellerID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetByIDWithBooks(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSellerDetailResponse(detail))
}

// Update handles PUT /seller/:id. Only fields present in the body are
// changed; unknown keys are rejected rather than silently applied.
//
// @Summary      Partially update a seller
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Seller id"
// @Param        body  body      updateSellerRequest  true  "Fields to change"
// @Success      200   {object}  sellerResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /seller/{id} [put]
func (h *SellerHandler) Update(c echo.Context) error {
	id, err := sellerID(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	for key := range raw {
		if _, ok := updatableSellerFields[key]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownField, key)
		}
	}

	var req updateSellerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	seller, err := h.service.Update(c.Request().Context(), id, ports.SellerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSellerResponse(seller))
}

// Delete handles DELETE /seller/:id.
//
// @Summary      Delete a seller
// @Tags         seller
// @Param        id  path  int  true  "Seller id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /seller/{id} [delete]
func (h *SellerHandler) Delete(c echo.Context) error {
	id, err := sellerID(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /seller/me — the authenticated seller's own profile.
//
// @Summary      Get the current seller
// @Tags         seller
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sellerResponse
// @Failure      401  {object}  errorResponse
// @Router       /seller/me [get]
func (h *SellerHandler) Me(c echo.Context) error {
	seller, ok := c.Get("seller").(*domain.Seller)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return c.JSON(http.StatusOK, toSellerResponse(seller))
}

func sellerID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid seller id")
	}
	return id, nil
}
