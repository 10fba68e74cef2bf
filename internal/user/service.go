package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// dummyPassword is hashed once at construction so logins for unknown emails
// pay for exactly the same bcrypt comparison as wrong-password logins.
const dummyPassword = "authgate-dummy-password"

type Issuer interface {
	Issue(userID int64) (string, error)
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	AccessToken string
	User        User
}

type Service struct {
	repo      Repository
	hasher    PasswordHasher
	issuer    Issuer
	validator *validator.Validate
	dummyHash string
}

func NewService(repo Repository, hasher PasswordHasher, issuer Issuer) (*Service, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &Service{
		repo:      repo,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator.New(),
		dummyHash: dummyHash,
	}, nil
}

// Signup creates a user. The email lookup is a friendly pre-check only; the
// repository's uniqueness rule is what actually prevents duplicates.
func (s *Service) Signup(ctx context.Context, creds Credentials) (User, error) {
	if err := s.validate(creds); err != nil {
		return User{}, err
	}

	if _, err := s.repo.FindByEmail(ctx, creds.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Insert(ctx, User{
		Email:    strings.ToLower(creds.Email),
		Password: hashed,
	})
}

func (s *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := s.validate(creds); err != nil {
		return LoginResult{}, err
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return LoginResult{}, err
		}
		s.hasher.Verify(creds.Password, s.dummyHash)
		return LoginResult{}, ErrInvalidCredentials
	}

	if !s.hasher.Verify(creds.Password, user.Password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{AccessToken: token, User: user}, nil
}

// CurrentUser loads the caller named by an already verified token. A token
// can outlive its user, in which case ErrNotFound is returned.
func (s *Service) CurrentUser(ctx context.Context, id int64) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) validate(creds Credentials) error {
	err := s.validator.Struct(creds)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &MissingFieldError{Field: strings.ToLower(fieldErrs[0].Field())}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
