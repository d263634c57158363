// Package notifier emails each employee the list of hardware to return.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wneessen/go-mail"

	"github.com/UnknownOlympus/charon/internal/lib/apperr"
	"github.com/UnknownOlympus/charon/internal/models"
)

// XLSXContentType is the MIME type of the spreadsheet attachment.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options are the message settings shared by every email of a run.
type Options struct {
	Sender          string
	Subject         string
	RecipientDomain string
	Note            string
}

// Sender delivers composed messages.
type Sender interface {
	Send(ctx context.Context, msg *mail.Msg) error
}

// NotifierIface sends the offboarding email of one employee and returns the recipient address.
type NotifierIface interface {
	Notify(ctx context.Context, employee models.Employee, assets []models.HardwareAsset, attachment string) (string, error)
}

type Notifier struct {
	log    *slog.Logger
	opts   Options
	sender Sender
}

func NewNotifier(log *slog.Logger, opts Options, sender Sender) *Notifier {
	return &Notifier{log: log, opts: opts, sender: sender}
}

// Notify composes and sends one email. Any failure is reported as apperr.ErrDelivery.
func (n *Notifier) Notify(
	ctx context.Context,
	employee models.Employee,
	assets []models.HardwareAsset,
	attachment string,
) (string, error) {
	const opn = "notifier.Notify"

	msg, recipient, err := n.Compose(employee, assets, attachment)
	if err != nil {
		return recipient, apperr.E(apperr.ErrDelivery, opn, err)
	}

	if err = n.sender.Send(ctx, msg); err != nil {
		return recipient, apperr.E(apperr.ErrDelivery, opn, err)
	}

	n.log.DebugContext(ctx, "Email sent",
		"op", opn,
		"to", recipient,
		"cc", employee.CCEmails,
		"rows", len(assets),
		"attachment", attachment,
	)

	return recipient, nil
}

// Compose builds the message for one employee: HTML body plus the spreadsheet attachment.
func (n *Notifier) Compose(
	employee models.Employee,
	assets []models.HardwareAsset,
	attachment string,
) (*mail.Msg, string, error) {
	recipient := RecipientAddress(employee.GivenName, employee.Surname, n.opts.RecipientDomain)

	body, err := RenderBody(NewBodyData(employee, assets, n.opts.Note))
	if err != nil {
		return nil, recipient, err
	}

	content, err := os.ReadFile(attachment)
	if err != nil {
		return nil, recipient, fmt.Errorf("failed to read attachment: %w", err)
	}

	msg := mail.NewMsg()
	if err = msg.From(n.opts.Sender); err != nil {
		return nil, recipient, fmt.Errorf("invalid sender %q: %w", n.opts.Sender, err)
	}
	if err = msg.To(recipient); err != nil {
		return nil, recipient, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}
	if len(employee.CCEmails) > 0 {
		if err = msg.Cc(employee.CCEmails...); err != nil {
			return nil, recipient, fmt.Errorf("invalid cc list %v: %w", employee.CCEmails, err)
		}
	}
	msg.Subject(n.opts.Subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err = msg.AttachReader(
		filepath.Base(attachment),
		bytes.NewReader(content),
		mail.WithFileContentType(XLSXContentType),
	); err != nil {
		return nil, recipient, fmt.Errorf("failed to attach %s: %w", attachment, err)
	}

	return msg, recipient, nil
}
