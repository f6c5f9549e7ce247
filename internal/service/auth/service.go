package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/apperr"
	"github.com/kavin1122/task-management/internal/model"
	"github.com/kavin1122/task-management/internal/util"
)

const tokenTTL = 24 * time.Hour

// loginFailedMsg is returned for both unknown email and wrong password
// so a caller cannot probe which accounts exist.
const loginFailedMsg = "invalid email or password"

// UserStore is the slice of the credential store the authenticator needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// Claims bind a session token to an identity and its role.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	store     UserStore
	jwtSecret string
	logger    *zap.Logger
}

func NewService(store UserStore, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a new user with role "user" and returns a freshly
// issued session token for it. The plaintext password is hashed and
// never stored or logged.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, *model.User, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, apperr.Validation("name, email and password are required")
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, apperr.Validation("email already registered")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return "", nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", u.ID),
		zap.String("email", u.Email),
	)

	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Login checks credentials and returns a session token. Unknown email
// and wrong password yield the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", nil, apperr.Auth(loginFailedMsg)
		}
		return "", nil, err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", nil, apperr.Auth(loginFailedMsg)
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("User logged in", zap.Int64("user_id", u.ID))
	return token, u, nil
}

// IssueToken produces a signed HS256 token encoding the user's id and
// role with issue and expiry times.
func (s *Service) IssueToken(u *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyToken validates the signature and expiry and returns the
// embedded identity. It is pure and safe to call concurrently.
func (s *Service) VerifyToken(tokenStr string) (*model.Identity, error) {
	if tokenStr == "" {
		return nil, apperr.Auth("missing token")
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, "invalid token", err)
	}
	if !token.Valid {
		return nil, apperr.Auth("invalid token")
	}

	return &model.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// UserByID returns a single user record.
func (s *Service) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.store.FindByID(ctx, id)
}

// Users returns all user records.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	return s.store.List(ctx)
}
