package domain

import "strings"

// InventoryStatus is the derived stock health of a product
type InventoryStatus string

const (
	StatusHealthy  InventoryStatus = "Healthy"
	StatusLow      InventoryStatus = "Low"
	StatusCritical InventoryStatus = "Critical"
)

var inventoryStatuses = map[string]InventoryStatus{
	"healthy":  StatusHealthy,
	"low":      StatusLow,
	"critical": StatusCritical,
}

// ParseInventoryStatus returns the status for a given label (case-insensitive).
func ParseInventoryStatus(label string) (InventoryStatus, bool) {
	status, ok := inventoryStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// AtRisk reports whether the status needs attention.
func (s InventoryStatus) AtRisk() bool {
	return s == StatusLow || s == StatusCritical
}

// Severity orders statuses for sorting, healthiest last.
func (s InventoryStatus) Severity() int {
	switch s {
	case StatusCritical:
		return 0
	case StatusLow:
		return 1
	default:
		return 2
	}
}

// SubscriptionTier gates Pro features
type SubscriptionTier string

const (
	TierStarter SubscriptionTier = "Starter"
	TierPro     SubscriptionTier = "Pro"
)

// ParseTier returns the tier for a given label (case-insensitive).
func ParseTier(label string) (SubscriptionTier, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "starter":
		return TierStarter, true
	case "pro":
		return TierPro, true
	}

	return "", false
}

// IsPro reports whether Pro features are unlocked.
func (t SubscriptionTier) IsPro() bool {
	return t == TierPro
}

// POStatus is the lifecycle state of a purchase order
type POStatus string

const (
	PODraft    POStatus = "Draft"
	POSent     POStatus = "Sent"
	POReceived POStatus = "Received"
)

var poStatuses = map[string]POStatus{
	"draft":    PODraft,
	"sent":     POSent,
	"received": POReceived,
}

// ParsePOStatus returns the purchase order status for a given label (case-insensitive).
func ParsePOStatus(label string) (POStatus, bool) {
	status, ok := poStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// AlertChannel names a notification channel on an alert setting
type AlertChannel string

const (
	ChannelEmail AlertChannel = "email"
	ChannelSMS   AlertChannel = "sms"
	ChannelSlack AlertChannel = "slack"
)

// ParseAlertChannel returns the channel for a given label (case-insensitive).
func ParseAlertChannel(label string) (AlertChannel, bool) {
	switch AlertChannel(strings.ToLower(strings.TrimSpace(label))) {
	case ChannelEmail:
		return ChannelEmail, true
	case ChannelSMS:
		return ChannelSMS, true
	case ChannelSlack:
		return ChannelSlack, true
	}

	return "", false
}

// RequiresPro reports whether the channel is a Pro feature.
func (c AlertChannel) RequiresPro() bool {
	return c == ChannelSMS || c == ChannelSlack
}
