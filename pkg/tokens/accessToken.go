package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// AccountID returns the numeric account id carried in the subject claim.
func (c *AccessClaims) AccountID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type Issuer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	// Now overrides the clock used to validate exp/iat on Parse.
	Now func() time.Time
}

type Subject struct {
	AccountID uint
	FirstName string
	LastName  string
	Role      string
}

func (i *Issuer) Issue(sub Subject, now time.Time) (string, time.Time, error) {
	exp := now.Add(i.TTL)
	claims := AccessClaims{
		GivenName:  sub.FirstName,
		FamilyName: sub.LastName,
		Role:       sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(sub.AccountID), 10),
			Issuer:    i.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if i.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.Audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (i *Issuer) Parse(tokenStr string) (*AccessClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if i.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.Issuer))
	}
	if i.Audience != "" {
		opts = append(opts, jwt.WithAudience(i.Audience))
	}
	if i.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(i.Now))
	}

	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return i.Secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
