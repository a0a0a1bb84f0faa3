package sms

import "context"

// Message - исходящее SMS
type Message struct {
	To   string
	Body string
}

// Provider отправляет SMS
type Provider interface {
	Send(ctx context.Context, msg *Message) error
}

// CodeBody - текст SMS с кодом подтверждения
func CodeBody(code string) string {
	return "Our Onversed Code is: " + code
}
