package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// ErrInvalidCredentials is returned for any authentication failure; the
// caller cannot tell a missing user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInactiveAccount is returned when the account exists but is disabled
var ErrInactiveAccount = errors.New("account is inactive")

// Service handles login, logout and token validation
type Service struct {
	db          *mongo.Database
	config      *shared.Config
	usersCol    *mongo.Collection
	sessionsCol *mongo.Collection
}

// CustomClaims for JWT
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates an auth Service
func NewService(db *mongo.Database, config *shared.Config) *Service {
	return &Service{
		db:          db,
		config:      config,
		usersCol:    db.Collection(shared.ColUsers),
		sessionsCol: db.Collection(shared.ColSessions),
	}
}

// Register creates a new user account with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, email, password, name string) (*shared.User, error) {
	if email == "" || password == "" {
		return nil, shared.NewValidationError("email", "email and password are required")
	}
	if len(password) < 8 {
		return nil, shared.NewValidationError("password", "password must be at least 8 characters")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := s.usersCol.CountDocuments(queryCtx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, shared.NewConflictError("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Security.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &shared.User{
		ID:           shared.GenerateID("USR"),
		Email:        email,
		PasswordHash: string(hash),
		Role:         shared.RoleStudent,
		Name:         name,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if _, err := s.usersCol.InsertOne(queryCtx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns a JWT plus the user record
func (s *Service) Login(ctx context.Context, email, password, ipAddress string) (string, *shared.User, error) {
	if email == "" || password == "" {
		return "", nil, shared.NewValidationError("email", "email and password are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrInactiveAccount
	}

	tokenString, expiresAt, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Session record allows server-side logout/revocation
	session := shared.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		IPAddress: ipAddress,
	}
	if _, err := s.sessionsCol.InsertOne(queryCtx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return tokenString, &user, nil
}

// Logout invalidates the session. Idempotent: logging out an unknown token
// succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return shared.NewValidationError("token", "token is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.sessionsCol.DeleteMany(queryCtx, bson.M{"token": token})
	return err
}

// ValidateToken checks the JWT signature and the session record, returning
// the authenticated user.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*shared.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidCredentials
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Security.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A token without a live session was revoked by logout
	count, err := s.sessionsCol.CountDocuments(queryCtx, bson.M{
		"token":      tokenString,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, ErrInvalidCredentials
	}

	var user shared.User
	err = s.usersCol.FindOne(queryCtx, bson.M{"_id": claims.UserID}).Decode(&user)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return &user, nil
}

// generateToken creates a signed JWT for the user
func (s *Service) generateToken(userID, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.config.Security.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}
