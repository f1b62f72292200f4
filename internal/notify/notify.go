package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"maintenance-automation-service/internal/config"
	"maintenance-automation-service/internal/models"
	"maintenance-automation-service/internal/utils"
	"maintenance-automation-service/pkg/email"
)

// Notifier sends heads-up messages when the automation scan raises a
// critical alert: a telegram message to the configured ops chats and,
// when the task has an assigned technician, an email to them. Delivery
// failures are logged and never surfaced to the scan.
type Notifier struct {
	cfg     config.Config
	logger  *logrus.Logger
	limiter *rate.Limiter

	// lookupEmail resolves a technician id to their email address.
	lookupEmail func(ctx context.Context, technicianID string) (string, error)
}

func New(cfg config.Config, logger *logrus.Logger, lookupEmail func(ctx context.Context, technicianID string) (string, error)) *Notifier {
	return &Notifier{
		cfg:         cfg,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(float64(cfg.Telegram.RatePerSecond)), cfg.Telegram.RatePerSecond),
		lookupEmail: lookupEmail,
	}
}

// CriticalAlert delivers a critical-alert heads-up over every configured
// channel.
func (n *Notifier) CriticalAlert(ctx context.Context, alert models.Alert, task models.MaintenanceTask) {
	subject := fmt.Sprintf("CRITICAL maintenance alert: %s", alert.MachineName)
	body := fmt.Sprintf(
		"Machine: %s (id %s)\nSector: %s\nTask: %s\nDue: %s\nDays remaining: %d",
		alert.MachineName, alert.MachineID, task.Sector, alert.TaskDescription,
		alert.DueDate.Format("2006-01-02"), alert.DaysRemaining,
	)

	if n.cfg.Telegram.BotToken != "" && len(n.cfg.Telegram.ChatIDs) > 0 {
		if err := n.sendTelegram(ctx, subject+"\n"+body); err != nil {
			n.logger.Errorf("Telegram heads-up failed for alert %s: %v", alert.ID, err)
		}
	}

	if task.AssignedTechnicianID != "" && n.cfg.Email.SMTPServer != "" && n.lookupEmail != nil {
		if err := n.sendEmail(ctx, task.AssignedTechnicianID, subject, body); err != nil {
			n.logger.Errorf("Email heads-up failed for alert %s: %v", alert.ID, err)
		}
	}
}

func (n *Notifier) sendTelegram(ctx context.Context, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	return utils.Retry(n.logger, 3, time.Second, func() error {
		b, err := bot.New(n.cfg.Telegram.BotToken)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}
		for _, chatID := range n.cfg.Telegram.ChatIDs {
			params := &bot.SendMessageParams{
				ChatID: chatID,
				Text:   text,
			}
			if _, err := b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", chatID, err)
			}
		}
		return nil
	})
}

func (n *Notifier) sendEmail(ctx context.Context, technicianID, subject, body string) error {
	to, err := n.lookupEmail(ctx, technicianID)
	if err != nil {
		return fmt.Errorf("failed to resolve technician %s email: %w", technicianID, err)
	}
	return email.Send(
		n.cfg.Email.SMTPServer,
		n.cfg.Email.SMTPPort,
		n.cfg.Email.Username,
		n.cfg.Email.Password,
		to,
		subject,
		body,
	)
}
