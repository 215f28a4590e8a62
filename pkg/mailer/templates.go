package mailer

import (
	"bytes"
	"html/template"
)

var (
	verificationTmpl = template.Must(template.New("verify").Parse(`<h2>Welcome to GasFlow, {{.Name}}!</h2>
<p>Please confirm your email address to start ordering.</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>This link expires in 24 hours.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<h2>Password reset</h2>
<p>Hi {{.Name}}, we received a request to reset your GasFlow password.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>This link expires in 1 hour. If you did not ask for this, ignore this email.</p>`))
)

type linkData struct {
	Name string
	Link string
}

func VerificationEmail(name, link string) (string, string, error) {
	body, err := render(verificationTmpl, linkData{Name: name, Link: link})
	return "Verify your GasFlow account", body, err
}

func PasswordResetEmail(name, link string) (string, string, error) {
	body, err := render(resetTmpl, linkData{Name: name, Link: link})
	return "Reset your GasFlow password", body, err
}

func render(t *template.Template, data linkData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
