package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/metrics"
	"github.com/jwalitptl/clinic-core/pkg/security"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

// DefaultSessionTimeout is the hard expiry measured from login time.
// Sessions are never refreshed by activity.
const DefaultSessionTimeout = 8 * time.Hour

// ErrInvalidCredentials is returned for every authentication failure: wrong
// password and inactive account are indistinguishable so the service never
// acts as an account-enumeration oracle.
var ErrInvalidCredentials = apperrors.NewAuth("invalid credentials")

type Service struct {
	accounts repository.AccountRepository
	digester security.Digester
	validate validator.Validator
	sessions *cache.Cache
	timeout  time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(accounts repository.AccountRepository, digester security.Digester,
	validate validator.Validator, log *logger.Logger, m *metrics.Metrics,
	timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &Service{
		accounts: accounts,
		digester: digester,
		validate: validate,
		sessions: cache.New(timeout, 10*time.Minute),
		timeout:  timeout,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// Authenticate verifies the credentials and issues a session stamped with the
// current time.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Session, error) {
	digest := s.digester.Digest(password)

	account, err := s.accounts.GetByCredentials(ctx, username, digest)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.countLogin("failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	snapshot := *account
	snapshot.PasswordDigest = ""

	session := &model.Session{
		Token:   uuid.New(),
		Account: snapshot,
		LoginAt: s.now(),
	}
	s.sessions.Set(session.Token.String(), session, s.timeout)
	s.countLogin("ok")
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.sessions.ItemCount()))
	}

	s.logger.Info("login", "username", username, "role", string(account.Role))
	return session, nil
}

// Lookup resolves a live session by token.
func (s *Service) Lookup(token uuid.UUID) (*model.Session, bool) {
	v, ok := s.sessions.Get(token.String())
	if !ok {
		return nil, false
	}
	session := v.(*model.Session)
	if !s.IsSessionValid(session) {
		s.sessions.Delete(token.String())
		return nil, false
	}
	return session, true
}

// IsSessionValid reports whether the fixed expiry window from login time has
// not yet elapsed.
func (s *Service) IsSessionValid(session *model.Session) bool {
	if session == nil {
		return false
	}
	return s.now().Sub(session.LoginAt) < s.timeout
}

// HasPermission compares role ranks; an expired session satisfies nothing.
func (s *Service) HasPermission(session *model.Session, required model.Role) bool {
	if !s.IsSessionValid(session) {
		return false
	}
	return session.Role().Satisfies(required)
}

func (s *Service) Logout(token uuid.UUID) {
	s.sessions.Delete(token.String())
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.sessions.ItemCount()))
	}
}

// CreateAccount registers a new account with a fresh digest. A duplicate
// username is a conflict, reported as a recoverable outcome.
func (s *Service) CreateAccount(ctx context.Context, req *model.CreateAccountRequest) (int64, error) {
	if err := s.validate.Validate(req); err != nil {
		return 0, apperrors.NewValidation(err.Error())
	}

	account := &model.Account{
		Username:       req.Username,
		PasswordDigest: s.digester.Digest(req.Password),
		Role:           model.Role(req.Role),
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		IsActive:       true,
	}

	id, err := s.accounts.Create(ctx, account)
	if err != nil {
		return 0, err
	}

	s.logger.Info("account created", "username", account.Username, "role", string(account.Role))
	return id, nil
}

// ChangePassword re-verifies the old digest before writing the new one.
// Returns false, with no write performed, when the old credential does not
// match.
func (s *Service) ChangePassword(ctx context.Context, accountID int64, oldPassword, newPassword string) (bool, error) {
	if err := security.CheckLength(newPassword); err != nil {
		return false, apperrors.NewValidation(err.Error())
	}

	replaced, err := s.accounts.ReplaceDigest(ctx, accountID,
		s.digester.Digest(oldPassword), s.digester.Digest(newPassword))
	if err != nil {
		return false, err
	}
	if replaced {
		s.logger.Info("password changed", "account_id", accountID)
	}
	return replaced, nil
}

func (s *Service) UpdateProfile(ctx context.Context, accountID int64, req *model.UpdateProfileRequest) error {
	if err := s.validate.Validate(req); err != nil {
		return apperrors.NewValidation(err.Error())
	}

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if req.FullName != nil {
		account.FullName = *req.FullName
	}
	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	return s.accounts.UpdateProfile(ctx, account)
}

// DeactivateAccount disables an account without deleting it. Rejecting
// self-deactivation of the acting account is the caller's authorization
// concern; this service has no notion of "currently acting as".
func (s *Service) DeactivateAccount(ctx context.Context, accountID int64) error {
	if err := s.accounts.Deactivate(ctx, accountID); err != nil {
		return err
	}
	s.logger.Info("account deactivated", "account_id", accountID)
	return nil
}

func (s *Service) GetAccount(ctx context.Context, accountID int64) (*model.Account, error) {
	return s.accounts.Get(ctx, accountID)
}

func (s *Service) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return s.accounts.List(ctx)
}

func (s *Service) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.Logins.WithLabelValues(status).Inc()
	}
}
