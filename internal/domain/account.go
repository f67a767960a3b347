package domain

import "time"

// Account is the persisted user record.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role

	// IsActive is true while the account holds a live session
	// (set by login, cleared by logout).
	IsActive       bool
	IsBlocked      bool
	IsVerified     bool
	IsKYCCompleted bool
	Is2FAEnabled   bool

	RefreshToken string

	VerifyToken       string
	VerifyTokenExpiry time.Time

	ForgotPasswordToken       string
	ForgotPasswordTokenExpiry time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy safe to hand to clients.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}

// NewAccount applies the registration defaults.
func NewAccount(name, email string) Account {
	return Account{
		Name:  name,
		Email: email,
		Role:  RoleUser,
	}
}

// AccountPatch is a partial update. Nil fields are left untouched.
// An empty string or zero time clears the stored value.
type AccountPatch struct {
	PasswordHash *string

	IsActive       *bool
	IsBlocked      *bool
	IsVerified     *bool
	IsKYCCompleted *bool

	RefreshToken *string

	VerifyToken       *string
	VerifyTokenExpiry *time.Time

	ForgotPasswordToken       *string
	ForgotPasswordTokenExpiry *time.Time
}

// Empty reports whether the patch changes nothing.
func (p AccountPatch) Empty() bool {
	return p.PasswordHash == nil &&
		p.IsActive == nil &&
		p.IsBlocked == nil &&
		p.IsVerified == nil &&
		p.IsKYCCompleted == nil &&
		p.RefreshToken == nil &&
		p.VerifyToken == nil &&
		p.VerifyTokenExpiry == nil &&
		p.ForgotPasswordToken == nil &&
		p.ForgotPasswordTokenExpiry == nil
}

// Apply mutates a in place. Used by stores that hold records in memory.
func (p AccountPatch) Apply(a *Account) {
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	if p.IsBlocked != nil {
		a.IsBlocked = *p.IsBlocked
	}
	if p.IsVerified != nil {
		a.IsVerified = *p.IsVerified
	}
	if p.IsKYCCompleted != nil {
		a.IsKYCCompleted = *p.IsKYCCompleted
	}
	if p.RefreshToken != nil {
		a.RefreshToken = *p.RefreshToken
	}
	if p.VerifyToken != nil {
		a.VerifyToken = *p.VerifyToken
	}
	if p.VerifyTokenExpiry != nil {
		a.VerifyTokenExpiry = *p.VerifyTokenExpiry
	}
	if p.ForgotPasswordToken != nil {
		a.ForgotPasswordToken = *p.ForgotPasswordToken
	}
	if p.ForgotPasswordTokenExpiry != nil {
		a.ForgotPasswordTokenExpiry = *p.ForgotPasswordTokenExpiry
	}
}

// AccountFilter selects accounts for admin queries. Empty fields match everything;
// multiple values inside a field are OR'ed, fields are AND'ed.
type AccountFilter struct {
	Roles        []Role
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Active       []bool
	Verified     []bool
	KYCCompleted []bool
}

// Validate rejects unknown roles and inverted date ranges.
func (f AccountFilter) Validate() error {
	for _, r := range f.Roles {
		if !IsValidRole(string(r)) {
			return ErrInvalidField("role", "unknown role "+string(r))
		}
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Before(*f.CreatedFrom) {
		return ErrInvalidField("createdAt", "end is before start")
	}
	return nil
}

// Matches evaluates the filter against a single record.
func (f AccountFilter) Matches(a Account) bool {
	if len(f.Roles) > 0 && !containsRole(f.Roles, a.Role) {
		return false
	}
	if f.CreatedFrom != nil && a.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && a.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if len(f.Active) > 0 && !containsBool(f.Active, a.IsActive) {
		return false
	}
	if len(f.Verified) > 0 && !containsBool(f.Verified, a.IsVerified) {
		return false
	}
	if len(f.KYCCompleted) > 0 && !containsBool(f.KYCCompleted, a.IsKYCCompleted) {
		return false
	}
	return true
}

func containsRole(rs []Role, r Role) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

func containsBool(bs []bool, b bool) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
