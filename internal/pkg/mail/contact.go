package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const contactTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">New contact enquiry</h2>
  <table style="width:100%;font-size:14px;color:#333">
    <tr><td style="padding:4px 8px;color:#888">Name</td><td>{{.Name}}</td></tr>
    <tr><td style="padding:4px 8px;color:#888">Email</td><td>{{.Email}}</td></tr>
    {{if .Phone}}<tr><td style="padding:4px 8px;color:#888">Phone</td><td>{{.Phone}}</td></tr>{{end}}
  </table>
  <div style="background:#f3f4f6;border-radius:8px;padding:12px 16px;margin-top:16px">
    <p style="font-size:13px;line-height:22px;margin:0;white-space:pre-wrap">{{.Body}}</p>
  </div>
  <p style="color:#999;font-size:11px;margin-top:24px">Sent automatically by {{.SiteName}}.</p>
</div>
</body>
</html>`

// ContactData is the payload of a contact-form notification.
type ContactData struct {
	Name     string
	Email    string
	Phone    string
	Body     string
	SiteName string
}

// SendContact notifies the site owner about a contact-form submission.
func (s *Sender) SendContact(to string, data ContactData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "the website"
	}
	html, err := renderTemplate(contactTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] New contact enquiry from %s", data.SiteName, data.Name),
		HTML:    html,
	})
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
