package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/repospector/repospector/shared/domain"
	"github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
	"github.com/repospector/repospector/shared/middleware/metrics"
	"github.com/repospector/repospector/shared/utils"
	"golang.org/x/crypto/bcrypt"
)

type PasswordResetService interface {
	Initiate(ctx context.Context, email domain.Email) error
	Consume(ctx context.Context, token string, newPassword domain.Password) error
}

type PasswordResetStorage interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
	SaveResetToken(ctx context.Context, token domain.ResetToken) error
	DeleteResetToken(ctx context.Context, tokenHash string) error
	ConsumeResetToken(ctx context.Context, tokenHash string, issuedAfter time.Time, passHash string) (domain.UserId, error)
}

type Mailer interface {
	Send(ctx context.Context, recipientEmail, subject, htmlBody string) error
	IsCorrect(email domain.Email) error
}

// ErrResetDelivery is returned when the reset link could not be mailed.
// The token has already been withdrawn when the caller sees it.
var ErrResetDelivery = &errors.ErrorWithStatusCode{
	Message:    "Failed to send reset email. Please try again later.",
	StatusCode: http.StatusInternalServerError,
}

// ErrInvalidResetToken is the single answer for absent, expired and used tokens.
var ErrInvalidResetToken = errors.Validation("Invalid or expired token")

const resetSubject = "Password Reset Request"

var resetEmailTemplate = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #834CFF;">Reset Your Password</h2>
  <p>Hello {{.Name}},</p>
  <p>We received a request to reset your password. Click the button below to create a new password:</p>
  <a href="{{.URL}}" style="display: inline-block; background-color: #834CFF; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 16px 0;">Reset Password</a>
  <p>This link will expire in {{.Validity}} for security reasons.</p>
  <p>If you didn't request this, you can safely ignore this email.</p>
  <p>Best regards,<br>Repospector Team</p>
</div>
`))

// outcomeAccepted is recorded for known and unknown addresses alike.
const outcomeAccepted = "accepted"

type PasswordReset struct {
	storage     PasswordResetStorage
	mailer      Mailer
	appURL      string
	ttl         time.Duration
	minResponse time.Duration
	now         func() time.Time
	wait        func(ctx context.Context, d time.Duration)
}

func NewPasswordReset(storage PasswordResetStorage, mailer Mailer, appURL string, ttl time.Duration) *PasswordReset {
	return &PasswordReset{
		storage: storage,
		mailer:  mailer,
		appURL:  strings.TrimRight(appURL, "/"),
		ttl:     ttl,
		now:     time.Now,
		wait:    sleep,
	}
}

// WithMinResponse makes Initiate take at least d once the address is valid,
// so mail delivery time does not set known addresses apart.
func (p *PasswordReset) WithMinResponse(d time.Duration) *PasswordReset {
	p.minResponse = d
	return p
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (p *PasswordReset) padFrom(ctx context.Context, start time.Time) {
	if remaining := p.minResponse - p.now().Sub(start); remaining > 0 {
		p.wait(ctx, remaining)
	}
}

// Initiate mails a reset link when the address belongs to an account.
// Unknown addresses succeed silently so callers cannot probe for accounts.
func (p *PasswordReset) Initiate(ctx context.Context, email domain.Email) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := p.mailer.IsCorrect(email); err != nil {
		return err
	}
	defer p.padFrom(ctx, p.now())

	user, err := p.storage.User(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			metrics.PasswordResets.WithLabelValues("initiate", outcomeAccepted).Inc()
			return nil
		}
		return err
	}

	token, err := utils.GenerateToken(utils.ResetTokenBytes)
	if err != nil {
		return err
	}
	tokenHash := utils.HashToken(token)
	if err := p.storage.SaveResetToken(ctx, domain.ResetToken{
		UserId:    user.Id,
		TokenHash: tokenHash,
		CreatedAt: p.now(),
	}); err != nil {
		return err
	}

	body, err := p.renderEmail(user, token)
	if err == nil {
		err = p.mailer.Send(ctx, user.Email, resetSubject, body)
	}
	if err != nil {
		logger.Log.Error("failed to deliver reset email", "user_id", user.Id, "error", err)
		// a link nobody received must not stay redeemable
		if delErr := p.storage.DeleteResetToken(context.WithoutCancel(ctx), tokenHash); delErr != nil {
			logger.Log.Error("failed to withdraw undelivered reset token", "user_id", user.Id, "error", delErr)
		}
		metrics.PasswordResets.WithLabelValues("initiate", "delivery_failed").Inc()
		return ErrResetDelivery
	}

	metrics.PasswordResets.WithLabelValues("initiate", outcomeAccepted).Inc()
	return nil
}

// ResetURL is the link placed in the email.
func (p *PasswordReset) ResetURL(token string) string {
	return p.appURL + "/reset-password?token=" + url.QueryEscape(token)
}

func (p *PasswordReset) renderEmail(user domain.User, token string) (string, error) {
	name := user.Name
	if name == "" {
		name = user.Email
	}
	var buf bytes.Buffer
	err := resetEmailTemplate.Execute(&buf, struct {
		Name, URL, Validity string
	}{
		Name:     name,
		URL:      p.ResetURL(token),
		Validity: humanDuration(p.ttl),
	})
	return buf.String(), err
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		if h := int(d / time.Hour); h > 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	}
	if m := int(d / time.Minute); m != 1 {
		return fmt.Sprintf("%d minutes", m)
	}
	return "1 minute"
}

// Consume sets a new password if token is live, and burns the token.
func (p *PasswordReset) Consume(ctx context.Context, token string, newPassword domain.Password) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidResetToken
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userId, err := p.storage.ConsumeResetToken(ctx, utils.HashToken(token), p.now().Add(-p.ttl), string(passHash))
	if err != nil {
		if errors.StatusCode(err) == http.StatusBadRequest || errors.IsNotFound(err) {
			metrics.PasswordResets.WithLabelValues("consume", "invalid").Inc()
			return ErrInvalidResetToken
		}
		return err
	}

	logger.Log.Info("password reset completed", "user_id", userId)
	metrics.PasswordResets.WithLabelValues("consume", "ok").Inc()
	return nil
}
