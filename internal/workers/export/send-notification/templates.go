// internal/workers/export/send-notification/templates.go
package sendnotification

import (
	"bytes"
	"fmt"
	"text/template"
)

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(name, subject, body string) messageTemplate {
	return messageTemplate{
		subject: template.Must(template.New(name + "-subject").Parse(subject)),
		body:    template.Must(template.New(name + "-body").Parse(body)),
	}
}

var templates = map[string]messageTemplate{
	TypeExportReady: mustTemplate(TypeExportReady,
		"Cleaned data export {{.ExportID}} is ready",
		`Dataset {{.DatasetID}} was exported.
{{range .Artifacts}}
  - {{.}}{{end}}
`),
	TypeValidationFailed: mustTemplate(TypeValidationFailed,
		"Dataset {{.DatasetID}} has {{.ErrorCount}} validation error(s)",
		"Dataset {{.DatasetID}} failed validation with {{.ErrorCount}} error(s). Review the findings before exporting.\n"),
	TypeRulesExported: mustTemplate(TypeRulesExported,
		"Rules configuration exported",
		`{{.RuleCount}} enabled rule(s) were written.
{{range .Artifacts}}
  - {{.}}{{end}}
`),
}

func render(input *Input) (subject, body string, err error) {
	tmpl, ok := templates[input.NotificationType]
	if !ok {
		return "", "", fmt.Errorf("unknown notification type %q", input.NotificationType)
	}
	var s, b bytes.Buffer
	if err := tmpl.subject.Execute(&s, input); err != nil {
		return "", "", err
	}
	if err := tmpl.body.Execute(&b, input); err != nil {
		return "", "", err
	}
	return s.String(), b.String(), nil
}
