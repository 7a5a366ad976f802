package dto

type ClientCreateRequest struct {
	Name       string  `json:"name"        validate:"required,min=2"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`
	Country    string  `json:"country"`
	TaxID      *string `json:"tax_id"`
	Notes      *string `json:"notes"`
}

// ClientUpdateRequest carries partial updates; nil fields stay untouched.
type ClientUpdateRequest struct {
	Name       *string `json:"name"        validate:"omitempty,min=2"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
	TaxID      *string `json:"tax_id"`
	Notes      *string `json:"notes"`
}

type ClientFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ClientResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`
	Country    string  `json:"country"`
	TaxID      *string `json:"tax_id"`
	Notes      *string `json:"notes"`
	CreatedAt  string  `json:"created_at"`
}

type ClientListResponse struct {
	Data  []ClientResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
