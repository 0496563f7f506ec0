package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/core/auth"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

const (
	resourceAccount = "account"
	// dummyPassword is hashed once so that unknown usernames cost one verify.
	dummyPassword = "marketplace-login-timing-equalizer"
)

// AccountService implements registration, login and account status toggling.
type AccountService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	now      func() time.Time
	activity recorder
	logger   zerolog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAccountService(
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	logger zerolog.Logger,
	opts ...Option,
) *AccountService {
	o := buildOptions(opts)
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		now:      o.now,
		activity: recorder{sink: o.activity, now: o.now, logger: logger},
		logger:   logger,
	}
}

// Register creates an ACTIVE account with the default self-registration role.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.Account, error) {
	account, err := s.create(ctx, username, email, password, domain.DefaultRole)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("account_id", account.ID).Str("username", account.Username).Msg("account registered")
	s.activity.record(ctx, domain.ActivityEvent{
		Type:      domain.ActivityAccountRegistered,
		SubjectID: account.ID,
		Resource:  resourceAccount,
		ToStatus:  account.Status,
		Metadata:  map[string]string{"role": string(account.Role)},
	})
	return account, nil
}

// CreatePrivileged creates an ADMIN or DEALER account on behalf of actor.
// Restricting who may call it is left to route policy.
func (s *AccountService) CreatePrivileged(ctx context.Context, actor domain.Principal, username, email, password string, role domain.Role) (*domain.Account, error) {
	if !role.IsPrivileged() {
		return nil, domain.ErrInvalidRole
	}

	account, err := s.create(ctx, username, email, password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("account_id", account.ID).
		Int64("actor_id", actor.AccountID).
		Str("role", string(role)).
		Msg("privileged account created")
	s.activity.record(ctx, domain.ActivityEvent{
		Type:      domain.ActivityAccountCreated,
		ActorID:   actor.AccountID,
		SubjectID: account.ID,
		Resource:  resourceAccount,
		ToStatus:  account.Status,
		Metadata:  map[string]string{"role": string(role)},
	})
	return account, nil
}

// Login verifies credentials and issues a token for an ACTIVE account.
// An unknown username and a wrong password fail with the same error.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Verify(password, s.dummyHash())
			s.loginFailed(ctx, username, 0, "unknown_username")
			return "", nil, domain.ErrAuthenticationFailed
		}
		return "", nil, fmt.Errorf("find account by username: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.loginFailed(ctx, username, account.ID, "wrong_password")
		return "", nil, domain.ErrAuthenticationFailed
	}
	if !account.IsActive() {
		s.loginFailed(ctx, username, account.ID, "inactive")
		return "", nil, domain.ErrAccountNotActive
	}

	token, err := s.tokens.Issue(auth.Subject{
		AccountID: account.ID,
		Role:      account.Role,
		Username:  account.Username,
	}, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.activity.record(ctx, domain.ActivityEvent{
		Type:      domain.ActivityLoginSuccess,
		ActorID:   account.ID,
		SubjectID: account.ID,
		Resource:  resourceAccount,
	})
	return token, account, nil
}

// ToggleAccountStatus flips the target account between ACTIVE and INACTIVE.
// An actor can never toggle their own account.
func (s *AccountService) ToggleAccountStatus(ctx context.Context, actor domain.Principal, targetID int64) (*domain.Account, error) {
	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find account %d: %w", targetID, err)
	}

	if err := auth.ForbidSelfAction(actor, target.ID); err != nil {
		s.logger.Warn().Int64("actor_id", actor.AccountID).Msg("self status change rejected")
		return nil, err
	}

	from := target.Status
	target.Status = from.Toggled()
	target.UpdatedAt = s.now()

	saved, err := s.accounts.Save(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("save account %d: %w", targetID, err)
	}

	s.logger.Info().
		Int64("account_id", saved.ID).
		Int64("actor_id", actor.AccountID).
		Str("from", string(from)).
		Str("to", string(saved.Status)).
		Msg("account status changed")
	s.activity.record(ctx, domain.ActivityEvent{
		Type:       domain.ActivityAccountStatusChanged,
		ActorID:    actor.AccountID,
		SubjectID:  saved.ID,
		Resource:   resourceAccount,
		FromStatus: from,
		ToStatus:   saved.Status,
	})
	return saved, nil
}

// create enforces email then username uniqueness, hashes the password and
// persists a new ACTIVE account.
func (s *AccountService) create(ctx context.Context, username, email, password string, role domain.Role) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrMissingAccountFields
	}
	if len(password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	if err := s.ensureAbsent(ctx, s.accounts.FindByEmail, email, domain.ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, s.accounts.FindByUsername, username, domain.ErrUsernameTaken); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.StatusActive,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.accounts.Save(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("save account: %w", err)
	}
	return created, nil
}

// dummyHash returns a digest at the hasher's cost, built on first use.
func (s *AccountService) dummyHash() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to build dummy password digest")
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *AccountService) ensureAbsent(
	ctx context.Context,
	find func(context.Context, string) (*domain.Account, error),
	value string,
	taken error,
) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return fmt.Errorf("check account uniqueness: %w", err)
	}
}

func (s *AccountService) loginFailed(ctx context.Context, username string, accountID int64, reason string) {
	s.logger.Warn().Str("username", username).Str("reason", reason).Msg("login failed")
	s.activity.record(ctx, domain.ActivityEvent{
		Type:      domain.ActivityLoginFailure,
		SubjectID: accountID,
		Resource:  resourceAccount,
		Metadata:  map[string]string{"username": username, "reason": reason},
	})
}
