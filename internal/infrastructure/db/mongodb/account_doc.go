package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/baechuer/account-service/internal/domain"
)

// accountDoc is the stored shape of an account. Pending side tokens and their
// expiries are omitted from the document when cleared.
type accountDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Name           string        `bson:"name"`
	Email          string        `bson:"email"`
	Password       string        `bson:"password,omitempty"`
	Role           string        `bson:"role"`
	IsActive       bool          `bson:"isActive"`
	IsBlocked      bool          `bson:"isBlocked"`
	IsVerified     bool          `bson:"isVerified"`
	IsKYCCompleted bool          `bson:"isKYCCompleted"`
	Is2FAEnabled   bool          `bson:"is2FAEnabled"`

	RefreshToken string `bson:"refreshToken,omitempty"`

	VerifyToken       string    `bson:"verifyToken,omitempty"`
	VerifyTokenExpiry time.Time `bson:"verifyTokenExpiry,omitempty"`

	ForgotPasswordToken       string    `bson:"forgotPasswordToken,omitempty"`
	ForgotPasswordTokenExpiry time.Time `bson:"forgotPasswordTokenExpiry,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func fromDomain(a domain.Account) accountDoc {
	return accountDoc{
		Name:                      a.Name,
		Email:                     a.Email,
		Password:                  a.PasswordHash,
		Role:                      string(a.Role),
		IsActive:                  a.IsActive,
		IsBlocked:                 a.IsBlocked,
		IsVerified:                a.IsVerified,
		IsKYCCompleted:            a.IsKYCCompleted,
		Is2FAEnabled:              a.Is2FAEnabled,
		RefreshToken:              a.RefreshToken,
		VerifyToken:               a.VerifyToken,
		VerifyTokenExpiry:         a.VerifyTokenExpiry,
		ForgotPasswordToken:       a.ForgotPasswordToken,
		ForgotPasswordTokenExpiry: a.ForgotPasswordTokenExpiry,
		CreatedAt:                 a.CreatedAt,
		UpdatedAt:                 a.UpdatedAt,
	}
}

func (d accountDoc) toDomain() domain.Account {
	return domain.Account{
		ID:                        d.ID.Hex(),
		Name:                      d.Name,
		Email:                     d.Email,
		PasswordHash:              d.Password,
		Role:                      domain.Role(d.Role),
		IsActive:                  d.IsActive,
		IsBlocked:                 d.IsBlocked,
		IsVerified:                d.IsVerified,
		IsKYCCompleted:            d.IsKYCCompleted,
		Is2FAEnabled:              d.Is2FAEnabled,
		RefreshToken:              d.RefreshToken,
		VerifyToken:               d.VerifyToken,
		VerifyTokenExpiry:         d.VerifyTokenExpiry,
		ForgotPasswordToken:       d.ForgotPasswordToken,
		ForgotPasswordTokenExpiry: d.ForgotPasswordTokenExpiry,
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
	}
}
