package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioProviderSend(t *testing.T) {
	var got struct {
		path, to, from, body, user string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got.path = r.URL.Path
		got.to = r.PostForm.Get("To")
		got.from = r.PostForm.Get("From")
		got.body = r.PostForm.Get("Body")
		got.user, _, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := NewTwilioProvider(Config{AccountSID: "AC1", AuthToken: "tok", From: "+100", BaseURL: srv.URL})
	err := p.Send(context.Background(), &Message{To: "+34600000000", Body: CodeBody("123456")})
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC1/Messages.json", got.path)
	assert.Equal(t, "+34600000000", got.to)
	assert.Equal(t, "+100", got.from)
	assert.Equal(t, "Our Onversed Code is: 123456", got.body)
	assert.Equal(t, "AC1", got.user)
}

func TestTwilioProviderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad number", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewTwilioProvider(Config{AccountSID: "AC1", From: "+100", BaseURL: srv.URL})
	err := p.Send(context.Background(), &Message{To: "x", Body: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestTwilioProviderNotConfigured(t *testing.T) {
	p := NewTwilioProvider(Config{})
	assert.Error(t, p.Send(context.Background(), &Message{To: "x"}))
}
