package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookmarket/seller-system/internal/core/ports"
)

// TokenHandler exchanges seller credentials for a bearer token.
type TokenHandler struct {
	sellers ports.SellerService
	issuer  ports.TokenIssuer
}

func NewTokenHandler(sellers ports.SellerService, issuer ports.TokenIssuer) *TokenHandler {
	return &TokenHandler{sellers: sellers, issuer: issuer}
}

// Issue handles POST /token/.
//
// @Summary      Issue an access token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Seller credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /token/ [post]
func (h *TokenHandler) Issue(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	seller, err := h.sellers.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := h.issuer.Issue(seller.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: "Bearer " + token})
}
