package email

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplatesRender(t *testing.T) {
	tm := NewTemplateManager()

	assert.ElementsMatch(t, []string{
		TemplateCode,
		TemplateEmployeeInvite,
		TemplateWelcomeTeam,
		TemplateResetPassword,
		TemplateWelcome,
	}, tm.TemplateNames())

	body, err := tm.Render(TemplateCode, TemplateData{"code": "123456", "full_name": "Ana Lopez"})
	require.NoError(t, err)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "Ana Lopez")

	body, err = tm.Render(TemplateWelcomeTeam, TemplateData{
		"password":     "Pa$$w0rd1234",
		"company_name": "Acme",
		"full_name":    "Bob",
		"url":          "https://app.onversed.com/oauth/sign-in",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "https://app.onversed.com/oauth/sign-in")
	assert.Contains(t, body, "Acme")
}

func TestRenderEscapesHTML(t *testing.T) {
	tm := NewTemplateManager()

	body, err := tm.Render(TemplateWelcome, TemplateData{"full_name": "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("NOPE", nil)
	assert.Error(t, err)
}

func TestLoadTemplatesOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateWelcome+".html"), []byte("custom {{.full_name}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	tm := NewTemplateManager()
	require.NoError(t, tm.LoadTemplates(dir))

	body, err := tm.Render(TemplateWelcome, TemplateData{"full_name": "Eve"})
	require.NoError(t, err)
	assert.Equal(t, "custom Eve", body)
}

func TestWatchReloadsChangedTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TemplateWelcome+".html")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	tm := NewTemplateManager()
	require.NoError(t, tm.LoadTemplates(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = tm.Watch(ctx, dir) }()

	// даем watcher подписаться
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	assert.Eventually(t, func() bool {
		body, err := tm.Render(TemplateWelcome, nil)
		return err == nil && body == "v2"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSMTPProviderValidate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "", Port: 25})
	assert.Error(t, p.Send(context.Background(), &Email{To: []string{"a@b.com"}}))

	p = NewSMTPProvider(&SMTPConfig{Host: "localhost", Port: 70000})
	assert.Error(t, p.Validate())
}

func TestSMTPProviderBuildMessageDefaults(t *testing.T) {
	p := NewSMTPProvider(DefaultConfig())

	_, err := p.buildMessage(&Email{})
	assert.Error(t, err)

	m, err := p.buildMessage(&Email{To: []string{"a@b.com"}, Subject: "Confirm E-mail!", HTMLBody: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Confirm E-mail!"}, m.GetHeader("Subject"))
	assert.Contains(t, m.GetHeader("From")[0], "hello@onversed.com")
}
