package dto

type RegisterRequest struct {
	Email        string  `json:"email"     validate:"required,email"`
	Password     string  `json:"password"  validate:"required,min=8"`
	FullName     string  `json:"full_name" validate:"required,min=2"`
	BusinessName *string `json:"business_name"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FullName      string  `json:"full_name"`
	BusinessName  *string `json:"business_name"`
	BusinessPhone *string `json:"business_phone"`
	BusinessEmail *string `json:"business_email"`
	TaxID         *string `json:"tax_id"`
	IsVerified    bool    `json:"is_verified"`
}
