package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbilibin2017/gw-storage-portal/internal/facades"
	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
	"github.com/sbilibin2017/gw-storage-portal/internal/models"
	"github.com/sbilibin2017/gw-storage-portal/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor used for password hashing.
const bcryptCost = 10

// Error variables
var (
	ErrUserAlreadyExists    = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")
	ErrProvisionFailed      = errors.New("user created but storage setup failed")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations needed for registration.
type UserWriter interface {
	Save(ctx context.Context, username, passwordHash string, sizeGB int64) (int64, error)
	Delete(ctx context.Context, userID int64) (int64, error)
}

// TenantProvisioner creates the external storage instance for a new user.
type TenantProvisioner interface {
	Provision(ctx context.Context, userID, port, sizeGB int64) (string, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// LoginAttemptLimiter tracks failed login attempts per username.
type LoginAttemptLimiter interface {
	TooMany(ctx context.Context, username string) (bool, error)
	Increment(ctx context.Context, username string) (int64, error)
	Reset(ctx context.Context, username string) error
}

// AuthService handles registration and login.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	provisioner TenantProvisioner
	jwt         JWTGenerator
	attempts    LoginAttemptLimiter
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	provisioner TenantProvisioner,
	jwt JWTGenerator,
	attempts LoginAttemptLimiter,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		provisioner: provisioner,
		jwt:         jwt,
		attempts:    attempts,
		kafkaWriter: kafkaWriter,
	}
}

// Register creates a new user record and provisions its storage instance.
// When the provisioning script fails, the fresh record is deleted again so
// the store does not keep an account without storage.
func (svc *AuthService) Register(ctx context.Context, username, password string, sizeGB int64) (int64, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return 0, err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username)
		return 0, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return 0, err
	}

	userID, err := svc.writer.Save(ctx, username, string(hashedPassword), sizeGB)
	if err != nil {
		// Concurrent registrations race at the unique constraint.
		if errors.Is(err, repositories.ErrUsernameExists) {
			logger.Log.Errorw("user already exists", "username", username)
			return 0, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return 0, err
	}

	port := facades.Port(userID)
	if _, err := svc.provisioner.Provision(ctx, userID, port, sizeGB); err != nil {
		logger.Log.Errorw("tenant provisioning failed", "userID", userID, "err", err)

		if _, delErr := svc.writer.Delete(ctx, userID); delErr != nil {
			logger.Log.Errorw("failed to roll back user after provisioning failure",
				"userID", userID, "err", delErr)
		}

		return 0, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
	}

	publishTenantEvent(ctx, svc.kafkaWriter, models.TenantEvent{
		UserID:    userID,
		Operation: models.OpProvision,
		SizeGB:    sizeGB,
		Port:      port,
	})

	return userID, nil
}

// Login authenticates a user and returns the user record and a JWT token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, username, password string) (*models.UserDB, string, error) {
	if svc.attempts != nil {
		locked, err := svc.attempts.TooMany(ctx, username)
		if err != nil {
			logger.Log.Errorw("failed to check login attempts", "username", username, "err", err)
		} else if locked {
			logger.Log.Errorw("login locked out", "username", username)
			return nil, "", ErrTooManyLoginAttempts
		}
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}
	if user == nil {
		svc.recordFailedAttempt(ctx, username)
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		svc.recordFailedAttempt(ctx, username)
		return nil, "", ErrInvalidCredentials
	}

	if svc.attempts != nil {
		if err := svc.attempts.Reset(ctx, username); err != nil {
			logger.Log.Errorw("failed to reset login attempts", "username", username, "err", err)
		}
	}

	token, err := svc.jwt.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

func (svc *AuthService) recordFailedAttempt(ctx context.Context, username string) {
	logger.Log.Errorw("invalid credentials", "username", username)
	if svc.attempts == nil {
		return
	}
	if _, err := svc.attempts.Increment(ctx, username); err != nil {
		logger.Log.Errorw("failed to record login attempt", "username", username, "err", err)
	}
}
