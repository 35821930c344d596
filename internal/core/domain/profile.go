package domain

import "time"

// Profile is an end-user record managed by operators. It has no role of its
// own; access is decided by the caller's operator role.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`
	RFC          string    `json:"rfc,omitempty"`
	CURP         string    `json:"curp,omitempty"`
	PostalCode   string    `json:"cp,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Date         string    `json:"date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks every regulated field that is set. Empty fields are absent.
func (p *Profile) Validate() error {
	checks := []struct {
		value string
		check func(string) error
	}{
		{p.CURP, ValidateCURP},
		{p.RFC, ValidateRFC},
		{p.PostalCode, ValidatePostalCode},
		{p.Phone, ValidatePhone},
		{p.Date, ValidateDate},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if err := c.check(c.value); err != nil {
			return err
		}
	}
	return nil
}

// ProfilePatch carries the fields of a partial profile update.
type ProfilePatch struct {
	Name       *string
	Email      *string
	Password   *string
	Active     *bool
	RFC        *string
	CURP       *string
	PostalCode *string
	Phone      *string
	Address    *string
	Date       *string
}

// Validate re-checks only the regulated fields present in the patch. An
// explicit empty string clears a regulated field and is not validated; name
// and email are identifiers and may not be emptied.
func (p ProfilePatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return &FormatError{Field: FieldName}
	}
	if p.Email != nil && *p.Email == "" {
		return &FormatError{Field: FieldEmail}
	}
	checks := []struct {
		value *string
		check func(string) error
	}{
		{p.CURP, ValidateCURP},
		{p.RFC, ValidateRFC},
		{p.PostalCode, ValidatePostalCode},
		{p.Phone, ValidatePhone},
		{p.Date, ValidateDate},
	}
	for _, c := range checks {
		if c.value == nil || *c.value == "" {
			continue
		}
		if err := c.check(*c.value); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch onto u.
func (p ProfilePatch) Apply(u *Profile, passwordHash string) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.RFC, p.RFC)
	set(&u.CURP, p.CURP)
	set(&u.PostalCode, p.PostalCode)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	set(&u.Date, p.Date)
	if p.Active != nil {
		u.Active = *p.Active
	}
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
}
