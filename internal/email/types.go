package email

// Email - одно исходящее письмо
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData - данные для шаблонов писем
type TemplateData map[string]interface{}

// Имена встроенных шаблонов
const (
	TemplateVerification     = "verification"
	TemplateProposalReceived = "proposal_received"
	TemplateProposalAccepted = "proposal_accepted"
)
