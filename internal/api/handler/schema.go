package handler

import "time"

// ErrorResponse is the standard error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// --- Operators ---

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type registerOperatorRequest struct {
	Name     string `json:"name"      validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	Role     string `json:"role"      validate:"required,role"`
	IsActive *bool  `json:"is_active"`
}

type updateOperatorRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password *string `json:"password"  validate:"omitempty,min=1"`
	Role     *string `json:"role"      validate:"omitempty,role"`
	IsActive *bool   `json:"is_active"`
}

type operatorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Profiles ---

// Regulated fields accept "" as absent; anything else must match the official format.
type createProfileRequest struct {
	Name       string `json:"name"      validate:"required"`
	Email      string `json:"email"     validate:"required"`
	Password   string `json:"password"  validate:"required"`
	IsActive   *bool  `json:"is_active"`
	RFC        string `json:"rfc"       validate:"rfc"`
	CURP       string `json:"curp"      validate:"curp"`
	PostalCode string `json:"cp"        validate:"cp"`
	Phone      string `json:"phone"     validate:"phone"`
	Address    string `json:"address"`
	Date       string `json:"date"      validate:"date"`
}

// Nil leaves a field untouched; "" clears an optional field. Name, email
// and password cannot be blanked.
type updateProfileRequest struct {
	Name       *string `json:"name"      validate:"omitnil,min=1"`
	Email      *string `json:"email"     validate:"omitnil,min=1"`
	Password   *string `json:"password"  validate:"omitnil,min=1"`
	IsActive   *bool   `json:"is_active"`
	RFC        *string `json:"rfc"       validate:"omitnil,rfc"`
	CURP       *string `json:"curp"      validate:"omitnil,curp"`
	PostalCode *string `json:"cp"        validate:"omitnil,cp"`
	Phone      *string `json:"phone"     validate:"omitnil,phone"`
	Address    *string `json:"address"`
	Date       *string `json:"date"      validate:"omitnil,date"`
}

type profileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	RFC        string    `json:"rfc,omitempty"`
	CURP       string    `json:"curp,omitempty"`
	PostalCode string    `json:"cp,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Date       string    `json:"date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
