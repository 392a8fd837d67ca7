package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBuiltins(t *testing.T) {
	r, err := NewRenderer()
	assert.NoError(t, err)

	body, err := r.Render("notify_new_post", map[string]interface{}{
		"author":  "alice",
		"subject": "greetings",
		"text":    "hello there",
	})
	assert.NoError(t, err)
	assert.Contains(t, body, "alice posted in \"greetings\"")
	assert.Contains(t, body, "hello there")

	body, err = r.Render("invitation_received", map[string]interface{}{
		"sender": "alice",
		"group":  "writers",
	})
	assert.NoError(t, err)
	assert.Contains(t, body, "alice invited you")
	assert.Contains(t, body, "writers")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	assert.NoError(t, err)

	_, err = r.Render("no_such_template", nil)
	assert.Error(t, err)
}

func TestRegisterOverride(t *testing.T) {
	r, err := NewRenderer()
	assert.NoError(t, err)

	assert.NoError(t, r.Register("notify_new_post", "custom: {{.subject}}"))

	body, err := r.Render("notify_new_post", map[string]interface{}{"subject": "x"})
	assert.NoError(t, err)
	assert.Equal(t, "custom: x", body)
}

func TestDisabledMailerIsNoOp(t *testing.T) {
	m := NewSMTPMailer("", "", "", "", "")
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send([]string{"a@example.com"}, "s", "b"))
}
