package handler

import (
	"time"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error" example:"username or password wrong"`
	Code  string `json:"code"  example:"AUTHENTICATION_FAILED"`
}

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=3,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=3,max=72"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN DEALER"`
}

type createProductRequest struct {
	Name  string  `json:"name"  validate:"required,max=200"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type pageQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// --- Response types ---

type loginResponse struct {
	Token string `json:"token"`
}

type accountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// productResponse serves every listing. DealerName is set for the client and
// admin views, Status for the dealer and admin views.
type productResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	DealerName string  `json:"dealer_name,omitempty"`
	Status     string  `json:"status,omitempty"`
}

type productsResponse struct {
	Products []productResponse `json:"products"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Page     int               `json:"page"`
}

// --- Mappers ---

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      string(a.Role),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// productView selects which optional product fields a listing exposes.
type productView struct {
	dealerName bool
	status     bool
}

var (
	dealerView = productView{status: true}
	clientView = productView{dealerName: true}
	adminView  = productView{dealerName: true, status: true}
)

func (v productView) render(p *domain.Product) productResponse {
	out := productResponse{ID: p.ID, Name: p.Name, Price: p.Price}
	if v.dealerName {
		out.DealerName = p.OwnerUsername
	}
	if v.status {
		out.Status = string(p.Status)
	}
	return out
}
