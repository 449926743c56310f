package services

import (
	"context"
	"errors"
	"testing"

	"ambassadorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, html, text string
	sendErr                 error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	f.to = to
	f.subject = subject
	f.html = html
	f.text = text
	return f.sendErr
}

type fakeRenderer struct {
	lastTemplate string
	lastData     any
	renderErr    error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	f.lastTemplate = templateName
	f.lastData = data
	if f.renderErr != nil {
		return "", "", "", f.renderErr
	}
	return "subject", "<p>html</p>", "text", nil
}

func TestEmailService_SendInvitation(t *testing.T) {
	t.Run("renders the invitation template and sends it", func(t *testing.T) {
		mailer := &fakeMailer{}
		renderer := &fakeRenderer{}
		svc := NewEmailService(mailer, renderer)

		data := &domain.InvitationEmailData{Email: "alice@next-u.fr", Name: "Alice", InviterName: "admin"}
		err := svc.SendInvitation(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, "invitation", renderer.lastTemplate)
		assert.Equal(t, data, renderer.lastData)
		assert.Equal(t, "alice@next-u.fr", mailer.to)
		assert.Equal(t, "subject", mailer.subject)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{})
		err := svc.SendInvitation(context.Background(), nil)
		require.Error(t, err)
	})

	t.Run("render failure", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{renderErr: errors.New("missing template")})

		err := svc.SendInvitation(context.Background(), &domain.InvitationEmailData{Email: "alice@next-u.fr"})

		require.Error(t, err)
		assert.Empty(t, mailer.to)
	})

	t.Run("send failure", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{sendErr: errors.New("ses throttled")}, &fakeRenderer{})
		err := svc.SendInvitation(context.Background(), &domain.InvitationEmailData{Email: "alice@next-u.fr"})
		require.Error(t, err)
	})
}

func TestEmailService_SendLoginCode(t *testing.T) {
	t.Run("renders the login_code template and sends it", func(t *testing.T) {
		mailer := &fakeMailer{}
		renderer := &fakeRenderer{}
		svc := NewEmailService(mailer, renderer)

		data := &domain.LoginCodeEmailData{Email: "alice@next-u.fr", Code: "123456", ExpiresInMinutes: 15}
		err := svc.SendLoginCode(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, "login_code", renderer.lastTemplate)
		assert.Equal(t, data, renderer.lastData)
		assert.Equal(t, "alice@next-u.fr", mailer.to)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{})
		err := svc.SendLoginCode(context.Background(), nil)
		require.Error(t, err)
	})
}
