package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// ReminderData is everything a permit reminder email shows. Times are
// already formatted in the permit office's zone.
type ReminderData struct {
	SiteName  string
	PermitURL string
	OpensAt   string
	Zone      string
	TripName  string
	TripStart string
	TripEnd   string
	AppURL    string
}

const reminderSubject = "Permits for {{.SiteName}} open tomorrow"

const reminderText = `Heads up: permits for {{.SiteName}} open {{.OpensAt}} ({{.Zone}}).

Trip: {{.TripName}}, {{.TripStart}}{{if .TripEnd}} to {{.TripEnd}}{{end}}
{{- if .PermitURL}}
Apply here: {{.PermitURL}}
{{- end}}
{{- if .AppURL}}

Trip details: {{.AppURL}}
{{- end}}
`

const reminderHTML = `<!doctype html>
<html>
<body>
<p>Heads up: permits for <strong>{{.SiteName}}</strong> open <strong>{{.OpensAt}}</strong> ({{.Zone}}).</p>
<p>Trip: {{.TripName}}, {{.TripStart}}{{if .TripEnd}} to {{.TripEnd}}{{end}}</p>
{{- if .PermitURL}}
<p><a href="{{.PermitURL}}">Apply for the permit</a></p>
{{- end}}
{{- if .AppURL}}
<p><a href="{{.AppURL}}">Trip details</a></p>
{{- end}}
</body>
</html>
`

var (
	subjectTmpl = texttemplate.Must(texttemplate.New("subject").Parse(reminderSubject))
	textTmpl    = texttemplate.Must(texttemplate.New("text").Parse(reminderText))
	htmlTmpl    = htmltemplate.Must(htmltemplate.New("html").Parse(reminderHTML))
)

// RenderReminder builds the reminder email for data, addressed to to.
func RenderReminder(data ReminderData, to []string) (Message, error) {
	var subject, text, html bytes.Buffer
	if err := subjectTmpl.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("mailer.RenderReminder: subject: %w", err)
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("mailer.RenderReminder: text: %w", err)
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("mailer.RenderReminder: html: %w", err)
	}
	return Message{
		To:      to,
		Subject: subject.String(),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
