package notification

import (
	"bytes"
	"html/template"
)

// SubjectPrefix is prepended to every outgoing notification subject.
const SubjectPrefix = "[nginx-manager] "

// emailTmpl is the HTML alternative of every alert. Subject and Body are
// auto-escaped by html/template; Body keeps its line breaks through pre-wrap
// so nginx diagnostics stay readable.
var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:24px;background-color:#f4f4f5;font-family:-apple-system,'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" role="presentation" style="max-width:640px;margin:0 auto;">
    <tr>
      <td style="background-color:#009639;color:#ffffff;padding:16px 24px;border-radius:8px 8px 0 0;font-weight:600;">
        {{.Subject}}
      </td>
    </tr>
    <tr>
      <td style="background-color:#ffffff;padding:24px;border-radius:0 0 8px 8px;">
        <pre style="margin:0;font-family:Menlo,Consolas,monospace;font-size:13px;line-height:1.5;color:#1f2937;white-space:pre-wrap;word-break:break-word;">{{.Body}}</pre>
      </td>
    </tr>
  </table>
</body>
</html>
`))

func buildSubject(subject string) string {
	return SubjectPrefix + subject
}

// buildEmailHTML renders the HTML email template with the given subject and body.
func buildEmailHTML(subject, body string) (string, error) {
	var buf bytes.Buffer
	err := emailTmpl.Execute(&buf, struct{ Subject, Body string }{subject, body})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
