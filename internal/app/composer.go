package app

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/everflowlogistics/quote-relay/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// subjectPrefix precedes the company name in every notification subject.
const subjectPrefix = "New Freight Quote Request from "

var (
	textTemplate = texttemplate.Must(
		texttemplate.ParseFS(templateFS, "templates/quote_request.txt.tmpl"),
	)

	htmlTemplate = htmltemplate.Must(
		htmltemplate.New("quote_request.html.tmpl").
			Funcs(htmltemplate.FuncMap{
				"nl2br": nl2br,
				"row":   newTableRow,
			}).
			ParseFS(templateFS, "templates/quote_request.html.tmpl"),
	)
)

// MailSettings addresses outgoing notifications.
type MailSettings struct {
	// To is the fixed recipient of every notification.
	To string

	// From is the sender identity.
	From domain.Sender

	// Missing names the mail configuration keys that are unset. While it is
	// non-empty every submission fails with a configuration error.
	Missing []string
}

// tableRow is one label/value row of the HTML body.
type tableRow struct {
	Label  string
	Value  string
	Shaded bool
}

func newTableRow(label, value string, shaded bool) tableRow {
	return tableRow{Label: label, Value: value, Shaded: shaded}
}

// nl2br escapes s and turns its line breaks into <br> elements.
func nl2br(s string) htmltemplate.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	escaped := htmltemplate.HTMLEscapeString(s)

	return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) //nolint:gosec // input escaped above
}

// ComposeNotification renders the email for a validated quote request.
// The requester's address becomes the reply-to so staff can answer directly.
func ComposeNotification(req *domain.QuoteRequest, mail MailSettings) (*domain.Notification, error) {
	var text, html bytes.Buffer

	err := textTemplate.Execute(&text, req)
	if err != nil {
		return nil, fmt.Errorf("rendering text body: %w", err)
	}

	err = htmlTemplate.Execute(&html, req)
	if err != nil {
		return nil, fmt.Errorf("rendering html body: %w", err)
	}

	return &domain.Notification{
		To:      mail.To,
		From:    mail.From,
		ReplyTo: req.Email,
		Subject: subjectPrefix + req.CompanyName,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
