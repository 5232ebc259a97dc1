// internal/workers/export/send-notification/models.go
package sendnotification

const (
	TypeExportReady      = "export-ready"
	TypeValidationFailed = "validation-failed"
	TypeRulesExported    = "rules-exported"
)

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Input describes what happened. SMS goes out only for high priority
// notifications with a phone number.
type Input struct {
	NotificationType string   `json:"notificationType"`
	Recipients       []string `json:"recipients"`
	Phone            string   `json:"phone,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	DatasetID        string   `json:"datasetId,omitempty"`
	ExportID         string   `json:"exportId,omitempty"`
	Artifacts        []string `json:"artifacts,omitempty"`
	ErrorCount       int      `json:"errorCount,omitempty"`
	RuleCount        int      `json:"ruleCount,omitempty"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	Status         string            `json:"status"`
	Channels       []string          `json:"channels"`
	MessageIDs     map[string]string `json:"messageIds,omitempty"`
	SentAt         string            `json:"sentAt"`
}
