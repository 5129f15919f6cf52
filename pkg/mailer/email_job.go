package mailer

import (
	"bytes"
	"fmt"
	texttpl "text/template"
)

// Template names understood by the notify worker.
const (
	TemplateWelcome = "welcome"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending
// email. Subject/Text/HTML may be set directly, or Template+Data can be
// used and the worker renders the body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

var welcomeText = texttpl.Must(texttpl.New("welcome").Parse(
	`Hi {{.Name}},

Welcome to {{.AppName}}! Your account is ready.

You can verify your email from your dashboard to unlock transfers.

— The {{.AppName}} team
`))

// RenderWelcome produces subject and text body for a welcome job.
func RenderWelcome(appName string, data map[string]any) (subject, text string, err error) {
	merged := map[string]any{"AppName": appName, "Name": ""}
	for k, v := range data {
		merged[k] = v
	}
	var buf bytes.Buffer
	if err := welcomeText.Execute(&buf, merged); err != nil {
		return "", "", fmt.Errorf("render welcome template: %w", err)
	}
	return fmt.Sprintf("Welcome to %s", appName), buf.String(), nil
}
