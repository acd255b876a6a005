package echoapi

import (
	"context"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/user"
)

const jwtContextKey = "userToken"

// appJWTConfig returns the JWT auth middleware config. Built per call since
// core.Conf is only available after startup.
func appJWTConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	IsAdmin  bool     `json:"is_admin,omitempty"`
	IsMentor bool     `json:"is_mentor,omitempty"`
	IsMember bool     `json:"is_member,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

func GetUserClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   usr.ID,
			Audience:  "Uongozi",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		Email:    usr.Email,
		IsAdmin:  usr.IsAdmin(),
		IsMentor: usr.IsMentor(),
		IsMember: usr.IsMember(),
		Roles:    usr.Roles,
	}
}

func authenticate(ctx context.Context, uname, pwd string, svc *user.Service) (*Claims, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by username or email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !usr.IsActive {
		return nil, errAccountDeactivated
	}
	if usr, err = svc.SetLastLogin(ctx, usr); err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return GetUserClaims(usr), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(core.Conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// optionalContextUserID extracts the authenticated user's ID from a bearer
// token if one is present and valid. Anonymous or bad tokens yield "",
// never an error; public endpoints degrade to the guest view.
func optionalContextUserID(ctx echo.Context) string {
	if claims, err := getContextClaims(ctx); err == nil {
		return claims.Subject
	}

	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(
		strings.TrimPrefix(auth, "Bearer "),
		claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(core.Conf.SecretKey), nil },
	)
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}
