package notify

import "github.com/wneessen/go-mail"

func (s *SMTP) Compose(msg Message) (*mail.Msg, error) {
	return s.compose(msg)
}
