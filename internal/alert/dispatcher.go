// Package alert delivers low stock notifications to a product's recipients.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/rs/zerolog/log"
)

// Dispatcher simulates delivery; no message leaves the process.
type Dispatcher struct {
	delay time.Duration
}

func NewDispatcher(delay time.Duration) *Dispatcher {
	return &Dispatcher{delay: delay}
}

// SendTest sends a test alert to every recipient configured on the setting
// and returns the confirmation shown to the merchant.
func (d *Dispatcher) SendTest(ctx context.Context, productName string, setting domain.AlertSetting) (string, error) {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	if setting.RecipientCount() == 0 {
		return "", domain.ErrNoRecipients
	}

	log.Info().
		Str("variant_id", setting.VariantID).
		Strs("emails", setting.AlertEmailList).
		Strs("sms", setting.AlertSMSList).
		Strs("slack", setting.AlertSlackList).
		Msg("test alert sent")

	return fmt.Sprintf("Test alert for \"%s\" sent to %d email(s), %d SMS, and %d Slack channel(s).",
		productName,
		len(setting.AlertEmailList),
		len(setting.AlertSMSList),
		len(setting.AlertSlackList),
	), nil
}
