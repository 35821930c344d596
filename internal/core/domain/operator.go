package domain

import "time"

// Operator is a privileged account that manages profiles and other operators.
type Operator struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OperatorPatch carries the fields of a partial update. Nil means "leave as is".
// Password is plaintext and gets hashed by the service before Apply.
type OperatorPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
	Active   *bool
}

// Validate checks the fields present in the patch.
func (p OperatorPatch) Validate() error {
	if p.Role != nil && !p.Role.Valid() {
		return &FormatError{Field: "role"}
	}
	return nil
}

// Apply merges the patch onto o. passwordHash replaces the stored digest when
// non-empty.
func (p OperatorPatch) Apply(o *Operator, passwordHash string) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Email != nil {
		o.Email = *p.Email
	}
	if p.Role != nil {
		o.Role = *p.Role
	}
	if p.Active != nil {
		o.Active = *p.Active
	}
	if passwordHash != "" {
		o.PasswordHash = passwordHash
	}
}

// Claims is the identity carried inside a bearer token.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}
