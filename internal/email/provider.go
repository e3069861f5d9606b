package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет готовое сообщение
	Send(email *Email) error

	// SendVerification отправляет ссылку подтверждения email
	SendVerification(to, name, token string) error

	// SendProposalReceived уведомляет клиента о новом предложении
	SendProposalReceived(to, clientName, requestTitle, providerName string, price float64) error

	// SendProposalAccepted уведомляет исполнителя, что его предложение принято
	SendProposalAccepted(to, providerName, requestTitle, clientName string) error
}
