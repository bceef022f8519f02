package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data is set and rendered by the sender, or Subject with
// Text and/or HTML is sent as is.
type EmailJob struct {
	From     string         `json:"from,omitempty"`
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "recover_password"
	Data     map[string]any `json:"data,omitempty"`
}
