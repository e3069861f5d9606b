package email

import "sync"

// MockProvider ничего не отправляет, а запоминает письма.
// Используется в тестах и когда email.enabled = false.
type MockProvider struct {
	mu        sync.Mutex
	config    SMTPConfig
	templates *TemplateManager
	sent      []Email
	tokens    map[string]string
}

func NewMockProvider(config SMTPConfig) *MockProvider {
	return &MockProvider{
		config:    config,
		templates: NewTemplateManager(),
		tokens:    make(map[string]string),
	}
}

func (m *MockProvider) Send(email *Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *email)
	return nil
}

func (m *MockProvider) SendVerification(to, name, token string) error {
	msg, err := verificationEmail(m.templates, m.config, to, name, token)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.tokens[to] = token
	m.mu.Unlock()
	return m.Send(msg)
}

func (m *MockProvider) SendProposalReceived(to, clientName, requestTitle, providerName string, price float64) error {
	msg, err := proposalReceivedEmail(m.templates, m.config, to, clientName, requestTitle, providerName, price)
	if err != nil {
		return err
	}
	return m.Send(msg)
}

func (m *MockProvider) SendProposalAccepted(to, providerName, requestTitle, clientName string) error {
	msg, err := proposalAcceptedEmail(m.templates, m.config, to, providerName, requestTitle, clientName)
	if err != nil {
		return err
	}
	return m.Send(msg)
}

// Sent возвращает копию отправленных писем
func (m *MockProvider) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo - письма одному адресату
func (m *MockProvider) SentTo(to string) []Email {
	var out []Email
	for _, e := range m.Sent() {
		for _, addr := range e.To {
			if addr == to {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// LastVerificationToken - последний токен подтверждения для адреса
func (m *MockProvider) LastVerificationToken(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[to]
}
