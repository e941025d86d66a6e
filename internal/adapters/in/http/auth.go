package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/operator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Principal is the authenticated operator behind a request.
type Principal struct {
	OperatorID kernel.UUID
	Username   string
	Role       operator.Role
}

const principalKey = "principal"

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(ctx echo.Context) (Principal, bool) {
	p, ok := ctx.Get(principalKey).(Principal)
	return p, ok
}

type OperatorRegistrar interface {
	Handle(ctx context.Context, cmd commands.RegisterOperatorCommand) error
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Authenticate requires an HS256 bearer token whose subject is the operator
// id and which carries the operator's username and role. The operator is
// registered (or refreshed) on every authenticated request.
func Authenticate(secret []byte, registrar OperatorRegistrar) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return ErrMissingToken
			}

			principal, err := parseToken(parser, secret, token)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidToken, err)
			}

			cmd, err := commands.NewRegisterOperatorCommand(principal.OperatorID, principal.Username, principal.Role)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidToken, err)
			}
			if err = registrar.Handle(ctx.Request().Context(), cmd); err != nil {
				return err
			}

			ctx.Set(principalKey, principal)
			return next(ctx)
		}
	}
}

func parseToken(parser *jwt.Parser, secret []byte, token string) (Principal, error) {
	if len(secret) == 0 {
		return Principal{}, fmt.Errorf("jwt secret not configured")
	}

	claims := &tokenClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !parsed.Valid {
		return Principal{}, fmt.Errorf("token is not valid")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("subject claim: %w", err)
	}
	role, err := operator.ParseRole(claims.Role)
	if err != nil {
		return Principal{}, fmt.Errorf("role claim: %w", err)
	}
	if strings.TrimSpace(claims.Username) == "" {
		return Principal{}, fmt.Errorf("username claim required")
	}

	return Principal{OperatorID: id, Username: claims.Username, Role: role}, nil
}

// SignToken issues a token Authenticate accepts. A zero ttl produces a token
// without an expiry.
func SignToken(secret []byte, p Principal, now time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  p.OperatorID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: p.Username,
		Role:     p.Role.String(),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// OrderCreationPolicy lists the roles that may not create orders.
type OrderCreationPolicy struct {
	denied map[operator.Role]struct{}
}

func NewOrderCreationPolicy(denied ...operator.Role) OrderCreationPolicy {
	p := OrderCreationPolicy{denied: make(map[operator.Role]struct{}, len(denied))}
	for _, r := range denied {
		p.denied[r] = struct{}{}
	}
	return p
}

func (p OrderCreationPolicy) Allows(role operator.Role) bool {
	_, denied := p.denied[role]
	return !denied
}
