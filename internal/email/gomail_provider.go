package email

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// AppURL - адрес фронтенда для ссылок в письмах
	AppURL string
	// VerificationTTLHours выводится в тексте письма
	VerificationTTLHours int
}

// GomailProvider отправляет письма через SMTP
type GomailProvider struct {
	config    SMTPConfig
	templates *TemplateManager
	dialer    *gomail.Dialer
}

func NewGomailProvider(config SMTPConfig) (*GomailProvider, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", config.Port)
	}
	return &GomailProvider{
		config:    config,
		templates: NewTemplateManager(),
		dialer:    gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}, nil
}

func (p *GomailProvider) Send(email *Email) error {
	m, err := buildMessage(p.config, email)
	if err != nil {
		return err
	}
	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (p *GomailProvider) SendVerification(to, name, token string) error {
	msg, err := verificationEmail(p.templates, p.config, to, name, token)
	if err != nil {
		return err
	}
	return p.Send(msg)
}

func (p *GomailProvider) SendProposalReceived(to, clientName, requestTitle, providerName string, price float64) error {
	msg, err := proposalReceivedEmail(p.templates, p.config, to, clientName, requestTitle, providerName, price)
	if err != nil {
		return err
	}
	return p.Send(msg)
}

func (p *GomailProvider) SendProposalAccepted(to, providerName, requestTitle, clientName string) error {
	msg, err := proposalAcceptedEmail(p.templates, p.config, to, providerName, requestTitle, clientName)
	if err != nil {
		return err
	}
	return p.Send(msg)
}

func buildMessage(config SMTPConfig, email *Email) (*gomail.Message, error) {
	if len(email.To) == 0 {
		return nil, fmt.Errorf("no recipients specified")
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", config.FromEmail, config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
	}
	if email.HTMLBody != "" {
		if email.Body != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		} else {
			m.SetBody("text/html", email.HTMLBody)
		}
	}
	return m, nil
}

// --- сборка писем, общая для всех провайдеров ---

func appLink(config SMTPConfig, path string, query url.Values) string {
	link := strings.TrimRight(config.AppURL, "/") + path
	if len(query) > 0 {
		link += "?" + query.Encode()
	}
	return link
}

func verificationEmail(tm *TemplateManager, config SMTPConfig, to, name, token string) (*Email, error) {
	body, err := tm.Render(TemplateVerification, TemplateData{
		"Name":           name,
		"ActionURL":      appLink(config, "/verificar-email", url.Values{"token": {token}}),
		"ExpiresInHours": config.VerificationTTLHours,
	})
	if err != nil {
		return nil, err
	}
	return &Email{To: []string{to}, Subject: "Confirme seu email no ChamaAí", HTMLBody: body}, nil
}

func proposalReceivedEmail(tm *TemplateManager, config SMTPConfig, to, clientName, requestTitle, providerName string, price float64) (*Email, error) {
	body, err := tm.Render(TemplateProposalReceived, TemplateData{
		"Name":         clientName,
		"ProviderName": providerName,
		"RequestTitle": requestTitle,
		"Price":        price,
		"ActionURL":    appLink(config, "/dashboard", nil),
	})
	if err != nil {
		return nil, err
	}
	return &Email{To: []string{to}, Subject: "Nova proposta para " + requestTitle, HTMLBody: body}, nil
}

func proposalAcceptedEmail(tm *TemplateManager, config SMTPConfig, to, providerName, requestTitle, clientName string) (*Email, error) {
	body, err := tm.Render(TemplateProposalAccepted, TemplateData{
		"Name":         providerName,
		"ClientName":   clientName,
		"RequestTitle": requestTitle,
		"ActionURL":    appLink(config, "/painel-prestador", nil),
	})
	if err != nil {
		return nil, err
	}
	return &Email{To: []string{to}, Subject: "Sua proposta foi aceita", HTMLBody: body}, nil
}
