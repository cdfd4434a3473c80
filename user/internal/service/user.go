package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/storefront/internal"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/user/internal/otel"
	"github.com/Alturino/storefront/user/pkg/request"
)

type UserStore interface {
	FindUserByEmail(c context.Context, email string) (repository.User, error)
	InsertUser(c context.Context, email string, password string) (repository.User, error)
}

type UserService struct {
	store     UserStore
	secretKey string
	now       func() time.Time
}

func NewUserService(store UserStore, secretKey string) *UserService {
	return &UserService{store: store, secretKey: secretKey, now: time.Now}
}

// Login verifies the staff credentials and returns a signed token for the staff routes.
func (u *UserService) Login(c context.Context, param request.Login) (string, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating login with error=%w", errors.Join(err, inErrors.ErrInvalidRequest))
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return "", err
	}

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Trace().Msg("finding user by email")
	user, err := u.store.FindUserByEmail(c, param.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding user by email=%s with error=%w", param.Email, inErrors.ErrUserNotFound)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return "", err
	}
	if err != nil {
		err = fmt.Errorf("failed finding user by email=%s with error=%w", param.Email, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying hashed password with password")
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password)); err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", inErrors.ErrPasswordMismatch)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("verified hashed password with password")

	logger = logger.With().Str(log.KeyProcess, "issuing token").Logger()
	c = logger.WithContext(c)
	token, err := internal.IssueToken(c, u.secretKey, user.ID, u.now())
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("logged in")

	return token, nil
}

// CreateUser hashes the password and stores the account. An existing email gets its password reset.
func (u *UserService) CreateUser(c context.Context, param request.CreateUser) (repository.User, error) {
	c, span := otel.Tracer.Start(c, "UserService CreateUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService CreateUser").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating user with error=%w", errors.Join(err, inErrors.ErrInvalidRequest))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Trace().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", errors.Join(err, inErrors.ErrFailedHashPassword))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}
	logger.Trace().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user to database").Logger()
	logger.Trace().Msg("inserting user to database")
	user, err := u.store.InsertUser(c, param.Email, string(hashed))
	if err != nil {
		err = fmt.Errorf("failed inserting user to database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("inserted user to database")

	return user, nil
}
