package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"tagscrape/pkg/scraper"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// commandSender runs a platform tool to raise the notification
type commandSender struct {
	build func(title, message string) *exec.Cmd
}

func (c commandSender) Send(title, message string) error {
	return c.build(title, message).Run()
}

const windowsToast = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$text = $template.GetElementsByTagName("text")
$text.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$text.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("tagscrape").Show($toast)
`

// platformSender returns the sender for goos, or nil when unsupported
func platformSender(goos string) NotificationSender {
	switch goos {
	case "linux":
		return commandSender{func(title, message string) *exec.Cmd {
			return exec.Command("notify-send", "--app-name=tagscrape", title, message)
		}}
	case "darwin":
		return commandSender{func(title, message string) *exec.Cmd {
			script := fmt.Sprintf("display notification %q with title %q", message, title)
			return exec.Command("osascript", "-e", script)
		}}
	case "windows":
		return commandSender{func(title, message string) *exec.Cmd {
			quote := strings.NewReplacer("'", "''")
			script := fmt.Sprintf(windowsToast, quote.Replace(title), quote.Replace(message))
			return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
		}}
	default:
		return nil
	}
}

// Notifier echoes build events to the console and the desktop
type Notifier struct {
	sender NotificationSender
}

// NewNotifier creates a Notifier for the current platform
func NewNotifier() *Notifier {
	return &Notifier{sender: platformSender(runtime.GOOS)}
}

// NewNotifierWithSender creates a Notifier around a specific sender
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

// SendNotification sends a neutral notification
func (n *Notifier) SendNotification(title, message string) {
	fmt.Fprintf(Output, "\n%s: %s\n", Cyan(title), Yellow(message))
	n.send(title, message)
}

// SendError sends an error notification
func (n *Notifier) SendError(title, message string) {
	fmt.Fprintf(Output, "\n%s: %s\n", Red(title), Red(message))
	n.send(title, message)
}

// SendSuccess sends a success notification
func (n *Notifier) SendSuccess(title, message string) {
	fmt.Fprintf(Output, "\n%s: %s\n", Green(title), Green(message))
	n.send(title, message)
}

// NotifyBuild reports the end of a build
func (n *Notifier) NotifyBuild(s scraper.Summary) {
	message := fmt.Sprintf("%s cards from %d tags in %s",
		humanize.Comma(int64(s.Cards)), s.AlreadyProcessed+s.Processed, FormatDuration(s.Duration))

	switch {
	case s.State == scraper.Completed && s.Failed == 0:
		n.SendSuccess("Build complete", message)
	case s.State == scraper.Completed:
		n.SendNotification("Build complete", fmt.Sprintf("%s, %d tags failed", message, s.Failed))
	default:
		n.SendError("Build interrupted", message)
	}
}

// send delivers to the desktop when supported. Failures are ignored.
func (n *Notifier) send(title, message string) {
	if n.sender != nil {
		_ = n.sender.Send(title, message)
	}
}
