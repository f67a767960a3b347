package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/baechuer/account-service/internal/domain"
)

// buildUpdate turns a patch into one $set/$unset document.
// Empty strings and zero times unset the field.
func buildUpdate(p domain.AccountPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	setBool := func(field string, v *bool) {
		if v != nil {
			set[field] = *v
		}
	}
	setString := func(field string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			unset[field] = ""
			return
		}
		set[field] = *v
	}
	setTime := func(field string, v *time.Time) {
		if v == nil {
			return
		}
		if v.IsZero() {
			unset[field] = ""
			return
		}
		set[field] = *v
	}

	setString("password", p.PasswordHash)
	setBool("isActive", p.IsActive)
	setBool("isBlocked", p.IsBlocked)
	setBool("isVerified", p.IsVerified)
	setBool("isKYCCompleted", p.IsKYCCompleted)
	setString("refreshToken", p.RefreshToken)
	setString("verifyToken", p.VerifyToken)
	setTime("verifyTokenExpiry", p.VerifyTokenExpiry)
	setString("forgotPasswordToken", p.ForgotPasswordToken)
	setTime("forgotPasswordTokenExpiry", p.ForgotPasswordTokenExpiry)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// buildFilter translates an AccountFilter into a query document.
func buildFilter(f domain.AccountFilter) bson.D {
	filter := bson.D{}

	if len(f.Roles) > 0 {
		roles := make([]string, 0, len(f.Roles))
		for _, r := range f.Roles {
			roles = append(roles, string(r))
		}
		filter = append(filter, bson.E{Key: "role", Value: bson.M{"$in": roles}})
	}

	if f.CreatedFrom != nil || f.CreatedTo != nil {
		rng := bson.M{}
		if f.CreatedFrom != nil {
			rng["$gte"] = *f.CreatedFrom
		}
		if f.CreatedTo != nil {
			rng["$lte"] = *f.CreatedTo
		}
		filter = append(filter, bson.E{Key: "createdAt", Value: rng})
	}

	inBools := func(field string, vs []bool) {
		if len(vs) > 0 {
			filter = append(filter, bson.E{Key: field, Value: bson.M{"$in": vs}})
		}
	}
	inBools("isActive", f.Active)
	inBools("isVerified", f.Verified)
	inBools("isKYCCompleted", f.KYCCompleted)

	return filter
}

func sideTokenField(kind domain.TokenKind) (string, bool) {
	switch kind {
	case domain.TokenVerify:
		return "verifyToken", true
	case domain.TokenReset:
		return "forgotPasswordToken", true
	default:
		return "", false
	}
}
