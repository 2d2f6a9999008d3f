package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

// События провайдера идентификации, которые синхронизируют пользователя.
const (
	IdentityEventUserCreated = "user.created"
	IdentityEventUserUpdated = "user.updated"
)

// IdentityUpserter сохраняет профиль пользователя из провайдера идентификации.
type IdentityUpserter interface {
	UpsertFromIdentity(ctx context.Context, profile models.IdentityProfile) (*models.User, error)
}

// WebhookHeaders заголовки svix, которыми подписан запрос.
type WebhookHeaders struct {
	ID        string
	Timestamp string
	Signature string
}

func (h WebhookHeaders) httpHeader() http.Header {
	header := http.Header{}
	header.Set("svix-id", h.ID)
	header.Set("svix-timestamp", h.Timestamp)
	header.Set("svix-signature", h.Signature)
	return header
}

// IdentityWebhook принимает события провайдера идентификации, подписанные svix.
type IdentityWebhook struct {
	wh    *svix.Webhook
	users IdentityUpserter
}

// NewIdentityWebhook принимает секрет вида whsec_<base64>.
func NewIdentityWebhook(secret string, users IdentityUpserter) (*IdentityWebhook, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("identity webhook: decode secret %w", err)
	}
	return &IdentityWebhook{wh: wh, users: users}, nil
}

// Verify проверяет подпись и свежесть запроса (допуск svix 5 минут).
func (w *IdentityWebhook) Verify(h WebhookHeaders, body []byte) error {
	if h.ID == "" || h.Timestamp == "" || h.Signature == "" {
		return apperror.New(apperror.ErrCodeBadRequest, "отсутствуют заголовки подписи вебхука")
	}
	if err := w.wh.Verify(body, h.httpHeader()); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, apperror.ErrInvalidSignature.Message)
	}
	return nil
}

// Sign формирует значение заголовка svix-signature.
func (w *IdentityWebhook) Sign(id string, ts time.Time, body []byte) (string, error) {
	return w.wh.Sign(id, ts, body)
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID                    string  `json:"id"`
		FirstName             *string `json:"first_name"`
		LastName              *string `json:"last_name"`
		ImageURL              *string `json:"image_url"`
		PrimaryEmailAddressID *string `json:"primary_email_address_id"`
		EmailAddresses        []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// Handle проверяет подпись и синхронизирует пользователя. Для прочих событий
// возвращает тип события и nil.
func (w *IdentityWebhook) Handle(ctx context.Context, h WebhookHeaders, body []byte) (string, *models.User, error) {
	if err := w.Verify(h, body); err != nil {
		return "", nil, err
	}

	var evt identityEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return "", nil, apperror.New(apperror.ErrCodeBadRequest, "некорректное тело вебхука")
	}

	if evt.Type != IdentityEventUserCreated && evt.Type != IdentityEventUserUpdated {
		return evt.Type, nil, nil
	}
	if evt.Data.ID == "" || len(evt.Data.EmailAddresses) == 0 {
		return evt.Type, nil, apperror.New(apperror.ErrCodeBadRequest, "в событии нет id или email пользователя")
	}

	email := evt.Data.EmailAddresses[0].EmailAddress
	if evt.Data.PrimaryEmailAddressID != nil {
		for _, addr := range evt.Data.EmailAddresses {
			if addr.ID == *evt.Data.PrimaryEmailAddressID {
				email = addr.EmailAddress
				break
			}
		}
	}

	name := strings.TrimSpace(strings.TrimSpace(deref(evt.Data.FirstName)) + " " + strings.TrimSpace(deref(evt.Data.LastName)))

	user, err := w.users.UpsertFromIdentity(ctx, models.IdentityProfile{
		ExternalID: evt.Data.ID,
		Name:       name,
		Email:      email,
		ImageURL:   evt.Data.ImageURL,
	})
	if err != nil {
		return evt.Type, nil, err
	}
	return evt.Type, user, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
