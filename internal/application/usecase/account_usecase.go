// internal/application/usecase/account_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	accountdom "digitalstore/internal/domain/account"
	userdom "digitalstore/internal/domain/user"
)

// EmailClient is an outbound port; the SendGrid adapter implements it.
// Delivery mechanics stay outside the core.
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

var (
	ErrAccountInvalidArgument = errors.New("account_usecase: invalid argument")
)

// RegisterInput is the app-level input for registration.
type RegisterInput struct {
	Username    string
	Email       string
	Role        userdom.Role
	FirebaseUID string
}

// AccountUsecase creates inactive accounts and sends the activation link.
type AccountUsecase struct {
	users  userdom.Repository
	tokens *accountdom.TokenService
	mailer EmailClient

	fromAddress string
	baseURL     string
	clock       Clock
}

func NewAccountUsecase(users userdom.Repository, tokens *accountdom.TokenService, mailer EmailClient, fromAddress, baseURL string) *AccountUsecase {
	return &AccountUsecase{
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		fromAddress: strings.TrimSpace(fromAddress),
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		clock:       systemClock{},
	}
}

// NewAccountUsecaseWithClock is useful for tests.
func NewAccountUsecaseWithClock(users userdom.Repository, tokens *accountdom.TokenService, mailer EmailClient, fromAddress, baseURL string, clock Clock) *AccountUsecase {
	uc := NewAccountUsecase(users, tokens, mailer, fromAddress, baseURL)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Register creates the user inactive and mails the activation link. The user
// row persists even when the mail send fails; the error is surfaced so the
// caller can prompt a resend.
func (uc *AccountUsecase) Register(ctx context.Context, in RegisterInput) (userdom.User, error) {
	var fbUID *string
	if s := strings.TrimSpace(in.FirebaseUID); s != "" {
		fbUID = &s
	}

	now := uc.clock.Now()
	u, err := userdom.New(uuid.NewString(), in.Username, in.Email, in.Role, fbUID, now)
	if err != nil {
		return userdom.User{}, err
	}

	created, err := uc.users.Create(ctx, u)
	if err != nil {
		return userdom.User{}, err
	}

	token := uc.tokens.Generate(created, now)
	link := uc.activationLink(created.ID, token)

	if uc.mailer == nil {
		log.Printf("[account_uc] WARN: mailer not configured, activation link for userId=%s: %s", created.ID, link)
		return created, nil
	}

	subject := "Activate your account"
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your registration by opening the link below:\n\n%s\n\nIf you did not register, ignore this mail.\n",
		created.Username, link,
	)
	if err := uc.mailer.Send(ctx, uc.fromAddress, created.Email, subject, body); err != nil {
		log.Printf("[account_uc] WARN: activation mail failed userId=%s err=%v", created.ID, err)
		return created, fmt.Errorf("account_usecase: activation mail failed: %w", err)
	}

	log.Printf("[account_uc] registered userId=%s role=%s (pending activation)", created.ID, created.Role)
	return created, nil
}

func (uc *AccountUsecase) activationLink(userID, token string) string {
	q := url.Values{}
	q.Set("uid", accountdom.EncodeUID(userID))
	q.Set("token", token)
	return uc.baseURL + "/accounts/activate?" + q.Encode()
}
