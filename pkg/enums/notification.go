package enums

import "fmt"

// NotificationLevel classifies outcome events surfaced to the user.
type NotificationLevel string

const (
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelError   NotificationLevel = "error"
	NotificationLevelWarning NotificationLevel = "warning"
)

var validNotificationLevels = []NotificationLevel{
	NotificationLevelSuccess,
	NotificationLevelError,
	NotificationLevelWarning,
}

// String implements fmt.Stringer.
func (n NotificationLevel) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationLevel.
func (n NotificationLevel) IsValid() bool {
	for _, candidate := range validNotificationLevels {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationLevel converts raw input into a NotificationLevel.
func ParseNotificationLevel(value string) (NotificationLevel, error) {
	for _, candidate := range validNotificationLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification level %q", value)
}
