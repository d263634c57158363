package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/UnknownOlympus/charon/internal/models"
)

// BodyData is rendered into the HTML body of an offboarding email.
type BodyData struct {
	GivenName string
	Surname   string
	Columns   []string
	Rows      [][]string
	Note      string
}

// NewBodyData prepares the template data for one employee.
func NewBodyData(employee models.Employee, assets []models.HardwareAsset, note string) BodyData {
	rows := make([][]string, 0, len(assets))
	for _, asset := range assets {
		rows = append(rows, asset.Values())
	}

	return BodyData{
		GivenName: employee.GivenName,
		Surname:   employee.Surname,
		Columns:   models.HardwareColumns,
		Rows:      rows,
		Note:      note,
	}
}

var bodyTemplate = template.Must(template.New("body").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family:Segoe UI, Arial, sans-serif; font-size:16px; color:#333; line-height:1.5;">
    <p>Dear {{.GivenName}} {{.Surname}},</p>

    <p>
      For your <strong>Offboarding</strong>, please make sure to
      <u><strong>return all your IT Equipment as listed in the table below.</strong></u>
    </p>

    <hr style="border:none; border-top:1px solid #ddd; margin:20px 0;">
    <p style="margin:0 0 8px 0;"><strong>Hardware assigned to your account (inline preview):</strong></p>
{{- if not .Rows}}
    <p>We could not find any hardware currently assigned to your account.
      If this is unexpected, please contact IT Support.</p>
{{- end}}

    <table style="border-collapse:collapse; width:100%;">
      <thead><tr>
        {{- range .Columns}}<th style="background:#f2f2f2; padding:6px; border:1px solid #ccc; text-align:left;">{{.}}</th>{{end -}}
      </tr></thead>
      <tbody>
        {{- range .Rows}}
        <tr>{{range .}}<td style="padding:6px; border:1px solid #ccc;">{{.}}</td>{{end}}</tr>
        {{- end}}
      </tbody>
    </table>

    <p style="font-size:12px; color:#666; margin-top:10px;">
      This inline table is for a quick preview. The full details are also attached as an Excel file.
    </p>
{{- if .Note}}

    <p>{{.Note}}</p>
{{- end}}

    <p>Best regards,<br/>IT Team</p>
  </body>
</html>
`))

// RenderBody renders the HTML body. Every value is HTML escaped.
func RenderBody(data BodyData) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}

	return buf.String(), nil
}
