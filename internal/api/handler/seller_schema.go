package handler

import "github.com/bookmarket/seller-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createSellerRequest struct {
	FirstName string `json:"first_name" validate:"required,alpha,min=2,max=50"`
	LastName  string `json:"last_name"  validate:"required,alpha,min=2,max=50"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
}

// updateSellerRequest is the allow-list for PUT /seller/:id. Pointer fields
// distinguish "absent, keep stored value" from "present"; a present value
// must satisfy the same bounds as on registration, so omitnil rather than
// omitempty: an explicit "" is a validation failure, not an absent field.
type updateSellerRequest struct {
	FirstName *string `json:"first_name" validate:"omitnil,alpha,min=2,max=50"`
	LastName  *string `json:"last_name"  validate:"omitnil,alpha,min=2,max=50"`
	Email     *string `json:"email"      validate:"omitnil,email"`
}

// updatableSellerFields is the set of keys PUT /seller/:id accepts; anything
// else in the body is rejected before binding.
var updatableSellerFields = map[string]struct{}{
	"first_name": {},
	"last_name":  {},
	"email":      {},
}

type tokenRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// sellerResponse never carries the password hash.
type sellerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type listSellersResponse struct {
	Sellers []sellerResponse `json:"sellers"`
}

type bookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

type sellerDetailResponse struct {
	ID        int64          `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Books     []bookResponse `json:"books"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// --- Mappers ---

func toSellerResponse(s *domain.Seller) sellerResponse {
	return sellerResponse{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
	}
}

func toSellerDetailResponse(d *domain.SellerWithBooks) sellerDetailResponse {
	books := make([]bookResponse, 0, len(d.Books))
	for _, b := range d.Books {
		books = append(books, bookResponse{
			ID:     b.ID,
			Title:  b.Title,
			Author: b.Author,
			Year:   b.Year,
		})
	}
	return sellerDetailResponse{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Books:     books,
	}
}
