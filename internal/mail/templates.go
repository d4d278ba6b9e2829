package mail

import (
	"bytes"
	"text/template"
	"time"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(
		`Bonjour {{.FirstName}} {{.LastName}},

Votre compte WEB4JOBS a été créé avec le rôle "{{.Role}}".
Vous pouvez vous connecter avec l'adresse {{.Email}}.
`))

	resetRequestTmpl = template.Must(template.New("reset_request").Parse(
		`Bonjour {{.FirstName}},

Une réinitialisation de votre mot de passe a été demandée.
Utilisez le lien suivant avant le {{.ExpiresAt.Format "02/01/2006 15:04"}} :

{{.ResetURL}}

Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.
`))

	resetSuccessTmpl = template.Must(template.New("reset_success").Parse(
		`Bonjour {{.FirstName}},

Votre mot de passe a été modifié avec succès.
`))
)

// WelcomeData feeds the account creation email.
type WelcomeData struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// ResetRequestData feeds the reset link email.
type ResetRequestData struct {
	FirstName string
	ResetURL  string
	ExpiresAt time.Time
}

// ResetSuccessData feeds the reset confirmation email.
type ResetSuccessData struct {
	FirstName string
}

// WelcomeMessage renders the account creation email.
func WelcomeMessage(to string, data WelcomeData) (Message, error) {
	return render(to, "Bienvenue sur WEB4JOBS", welcomeTmpl, data)
}

// ResetRequestMessage renders the password reset link email.
func ResetRequestMessage(to string, data ResetRequestData) (Message, error) {
	return render(to, "Réinitialisation de votre mot de passe", resetRequestTmpl, data)
}

// ResetSuccessMessage renders the password reset confirmation email.
func ResetSuccessMessage(to string, data ResetSuccessData) (Message, error) {
	return render(to, "Mot de passe réinitialisé", resetSuccessTmpl, data)
}

func render(to, subject string, tmpl *template.Template, data any) (Message, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, Body: buf.String()}, nil
}
