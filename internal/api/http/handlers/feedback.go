package handlers

import (
	"github.com/spec-kit/ticket-desk/internal/notify"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// report surfaces a failed operation on the feedback channel before the
// error middleware shapes the response. Quota and access problems are
// warnings; everything else is an error. Confirmation requests are not
// failures and get no message.
func report(channel *notify.Channel, err error) error {
	if err == nil || channel == nil {
		return err
	}
	failure := outcome.As(err)
	switch failure.Kind {
	case outcome.KindConfirmRequired:
	case outcome.KindQuota, outcome.KindAccess:
		channel.Show(failure.Message, notify.KindWarning, 0)
	default:
		channel.Show(failure.Message, notify.KindError, 0)
	}
	return err
}
