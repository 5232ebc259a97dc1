// internal/workers/export/send-notification/handler.go
package sendnotification

import (
	"context"
	"fmt"
	"regexp"
	"time"

	awsclients "data-workers/internal/common/aws"
	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "send-notification"

var e164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
	responder *camunda.Responder
	now       func() time.Time
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    scoped,
		responder: camunda.NewResponder(scoped),
		now:       time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		return h.responder.Fail(client, job, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		return h.responder.Fail(client, job, err)
	}
	return h.responder.Complete(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	subject, body, err := render(input)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	out := &Output{
		NotificationID: uuid.NewString(),
		Status:         StatusDisabled,
		Channels:       make([]string, 0, 2),
		MessageIDs:     make(map[string]string),
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && len(input.Recipients) > 0 {
		res, err := h.sesClient.SendEmail(ctx, awsclients.EmailInput(h.config.FromEmail, input.Recipients, subject, body))
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		out.Channels = append(out.Channels, ChannelEmail)
		out.MessageIDs[ChannelEmail] = awsclients.MessageID(res.MessageId)
	}

	if h.config.SMSEnabled && input.Phone != "" && input.Priority == "high" {
		res, err := h.snsClient.Publish(ctx, awsclients.SMSInput(input.Phone, subject))
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError(ChannelSMS, err)
		}
		out.Channels = append(out.Channels, ChannelSMS)
		out.MessageIDs[ChannelSMS] = awsclients.MessageID(res.MessageId)
	}

	if len(out.Channels) > 0 {
		out.Status = StatusSent
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"type":           input.NotificationType,
		"status":         out.Status,
		"channels":       out.Channels,
	})
	return out, nil
}

func validateInput(input *Input) error {
	if input.NotificationType == "" {
		return apperrors.NewInvalidInputError("notificationType is required")
	}
	if len(input.Recipients) == 0 && input.Phone == "" {
		return apperrors.NewInvalidInputError("at least one recipient or a phone number is required")
	}
	for _, r := range input.Recipients {
		if !validation.IsEmail(r) {
			return apperrors.NewInvalidInputError(fmt.Sprintf("invalid recipient email %q", r))
		}
	}
	if input.Phone != "" && !e164.MatchString(input.Phone) {
		return apperrors.NewInvalidInputError(fmt.Sprintf("phone %q is not in E.164 format", input.Phone))
	}
	return nil
}
