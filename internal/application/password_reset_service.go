package application

import (
	"context"
	"errors"
	"expvar"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/config"
	"github.com/qixeo/qixeo-web/internal/domain/entity"
	repo "github.com/qixeo/qixeo-web/internal/domain/repository"
	"github.com/qixeo/qixeo-web/pkg/helpers"
	"github.com/qixeo/qixeo-web/pkg/mailer"
	mailtpl "github.com/qixeo/qixeo-web/pkg/mailer/templates"
)

var (
	ErrTokenCreate   = errors.New("failed to create token")
	ErrEmailDelivery = errors.New("failed to send email")
	ErrTokenInvalid  = errors.New("invalid or expired token")
)

var (
	resetRequests    = expvar.NewInt("password_reset_requests")
	resetEmailErrors = expvar.NewInt("password_reset_email_errors")
	resetConfirmed   = expvar.NewInt("password_reset_confirmed")
)

// RequestMeta describes where a recovery request came from; it is only used
// to enrich the email.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type PasswordResetService struct {
	Users    repo.UserRepository
	Tokens   repo.VerificationTokenRepository
	Mail     mailer.Sender
	Sessions *SessionService
	Cfg      *config.Config
	Logger   *logrus.Logger
	TTL      time.Duration
	Now      func() time.Time
}

func NewPasswordResetService(users repo.UserRepository, tokens repo.VerificationTokenRepository, mail mailer.Sender, sessions *SessionService, cfg *config.Config, logger *logrus.Logger) *PasswordResetService {
	ttl := cfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PasswordResetService{
		Users:    users,
		Tokens:   tokens,
		Mail:     mail,
		Sessions: sessions,
		Cfg:      cfg,
		Logger:   logger,
		TTL:      ttl,
		Now:      time.Now,
	}
}

// RequestReset mints a recovery token for the user owning email, stores its
// digest and mails the plaintext. Each call adds a new token row.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string, meta RequestMeta) error {
	resetRequests.Add(1)

	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	token, digest, err := helpers.GenRecoveryToken()
	if err != nil {
		return oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(errors.Join(ErrTokenCreate, err))
	}
	now := s.Now()
	expires := now.Add(s.TTL)
	vt := &entity.VerificationToken{Identifier: u.Email, Token: digest, Expires: expires}
	if err := s.Tokens.Create(ctx, vt); err != nil {
		return oops.Code("RESET_TOKEN_PERSIST_FAILED").With("user_id", u.ID).Wrap(errors.Join(ErrTokenCreate, err))
	}

	data := mailtpl.NewRecoverPasswordData(s.Cfg, u.Name, u.Email, token,
		mailtpl.WithExpiresAt(expires),
		mailtpl.WithTime(now),
		mailtpl.WithIP(meta.IP),
		mailtpl.WithUserAgent(meta.UserAgent),
	)
	job := mailer.EmailJob{
		From:     s.Cfg.MailSender,
		To:       u.Email,
		Template: mailtpl.RecoverPassword,
		Data:     data,
	}
	if err := s.Mail.Deliver(ctx, job); err != nil {
		resetEmailErrors.Add(1)
		return oops.Code("RESET_EMAIL_FAILED").With("user_id", u.ID).Wrap(errors.Join(ErrEmailDelivery, err))
	}

	helpers.LogInfo(s.Logger, "password recovery email dispatched", logrus.Fields{"user_id": u.ID})
	return nil
}

// ConfirmReset sets a new password for the owner of token and consumes every
// outstanding token of that user.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, token, password string) error {
	digest := helpers.HashToken(strings.TrimSpace(token))
	vt, err := s.Tokens.GetByToken(ctx, digest)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTokenInvalid
	}
	if err != nil {
		return err
	}
	if vt.IsExpired(s.Now()) {
		if dErr := s.Tokens.DeleteByToken(ctx, digest); dErr != nil {
			helpers.LogError(s.Logger, "delete expired token failed", dErr, nil)
		}
		return ErrTokenInvalid
	}

	u, err := s.Users.GetByEmail(ctx, vt.Identifier)
	if errors.Is(err, repo.ErrNotFound) {
		if _, dErr := s.Tokens.DeleteByIdentifier(ctx, vt.Identifier); dErr != nil {
			helpers.LogError(s.Logger, "delete orphaned tokens failed", dErr, logrus.Fields{"identifier": vt.Identifier})
		}
		return ErrTokenInvalid
	}
	if err != nil {
		return err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	if _, err := s.Tokens.DeleteByIdentifier(ctx, vt.Identifier); err != nil {
		return err
	}
	if s.Sessions != nil {
		if err := s.Sessions.Revoke(ctx, u.ID); err != nil {
			helpers.LogError(s.Logger, "revoke session after reset failed", err, logrus.Fields{"user_id": u.ID})
		}
	}
	resetConfirmed.Add(1)
	helpers.LogInfo(s.Logger, "password reset confirmed", logrus.Fields{"user_id": u.ID})
	return nil
}
