package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateManager хранит html-шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(fmt.Sprintf("email: builtin template %s: %v", name, err))
		}
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(layoutStart + templateStr + layoutEnd)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

const layoutStart = `<!DOCTYPE html>
<html lang="pt-BR"><body style="font-family: Arial, sans-serif; color: #1f2937;">
<h2 style="color: #2563eb;">ChamaAí</h2>
`

const layoutEnd = `
<p style="color: #6b7280; font-size: 12px;">Você recebeu este email porque tem uma conta no ChamaAí.</p>
</body></html>`

var builtinTemplates = map[string]string{
	TemplateVerification: `<p>Olá, {{.Name}}!</p>
<p>Confirme seu email para ativar sua conta.</p>
<p><a href="{{.ActionURL}}">Confirmar email</a></p>
<p>O link expira em {{.ExpiresInHours}} horas.</p>`,

	TemplateProposalReceived: `<p>Olá, {{.Name}}!</p>
<p>{{.ProviderName}} enviou uma proposta de R$ {{printf "%.2f" .Price}} para o pedido "{{.RequestTitle}}".</p>
<p><a href="{{.ActionURL}}">Ver propostas</a></p>`,

	TemplateProposalAccepted: `<p>Olá, {{.Name}}!</p>
<p>{{.ClientName}} aceitou sua proposta para "{{.RequestTitle}}".</p>
<p><a href="{{.ActionURL}}">Ver detalhes</a></p>`,
}
