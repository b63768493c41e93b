package auth

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"time"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret string
	Issuer string
	// AdminTTL and UserTTL bound token lifetime per role; zero means the
	// token never expires.
	AdminTTL   time.Duration
	UserTTL    time.Duration
	BcryptCost int
}

type Service struct {
	secret   []byte
	issuer   string
	adminTTL time.Duration
	userTTL  time.Duration
	cost     int
	log      *slog.Logger
}

func NewAuthService(opts Options, logger *slog.Logger) *Service {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		secret:   []byte(opts.Secret),
		issuer:   opts.Issuer,
		adminTTL: opts.AdminTTL,
		userTTL:  opts.UserTTL,
		cost:     cost,
		log:      logger.With(sl.Module("auth-service")),
	}
}

func (s *Service) ttl(role string) time.Duration {
	if role == entity.RoleAdmin {
		return s.adminTTL
	}
	return s.userTTL
}

// IssueToken signs the account id and role.
func (s *Service) IssueToken(account *entity.Account) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  account.ID,
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl := s.ttl(account.Role); ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// AuthenticateByToken verifies the signature and expiry of token and
// returns its claims.
func (s *Service) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token == "" {
		return nil, errs.Unauthenticatedf("missing credentials")
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errs.Wrap(errs.Unauthenticated, "invalid or expired credentials", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.Role == "" {
		return nil, errs.Unauthenticatedf("invalid or expired credentials")
	}
	return &entity.UserAuth{
		AccountId: claims.Subject,
		Role:      claims.Role,
	}, nil
}

func (s *Service) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errs.Invalidf("password is too long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *Service) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
