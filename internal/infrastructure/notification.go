package infrastructure

import (
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/yourusername/url-scoop-go/internal/domain"
)

// NotificationService sends desktop notifications about batch runs
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	switch n.config.Method {
	case "osascript":
		return n.sendOSAScript(title, message)
	case "notify-send":
		return n.sendNotifySend(title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}
}

// sendOSAScript sends notification using macOS osascript
func (n *NotificationService) sendOSAScript(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
	cmd := exec.Command("osascript", "-e", script)

	if err := cmd.Run(); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", "osascript"),
			zap.Error(err))
		return err
	}
	return nil
}

// sendNotifySend sends notification using Linux notify-send
func (n *NotificationService) sendNotifySend(title, message string) error {
	cmd := exec.Command("notify-send", title, message)

	if err := cmd.Run(); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", "notify-send"),
			zap.Error(err))
		return err
	}
	return nil
}

// NotifyRunStarted sends a notification when a batch run starts
func (n *NotificationService) NotifyRunStarted(urlCount int, destDir string) {
	title := "Batch Fetch Started"
	message := fmt.Sprintf("Fetching %d URLs to %s", urlCount, truncateString(destDir, 40))
	n.Send(title, message)
}

// NotifyRunCompleted sends a notification when a batch run finishes
func (n *NotificationService) NotifyRunCompleted(run *domain.Run) {
	title := "Batch Fetch Completed"
	message := fmt.Sprintf("%d saved, %d skipped, %d failed", run.SuccessCount, run.SkipCount, run.ErrorCount)
	n.Send(title, message)
}

// NotifyRunFailed sends a notification when a batch run aborts
func (n *NotificationService) NotifyRunFailed(err error) {
	title := "Batch Fetch Failed"
	n.Send(title, truncateString(err.Error(), 80))
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
