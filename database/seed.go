package database

import (
	"fmt"

	"chamaai_backend/internal/catalog"
	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

var defaultFAQ = []models.FAQQuestion{
	{Topic: "clientes", SortOrder: 1, Question: "Como faço para solicitar um serviço?",
		Answer: "Crie uma conta de cliente, escolha a categoria e descreva o que precisa. Os prestadores da região enviam propostas com preço."},
	{Topic: "clientes", SortOrder: 2, Question: "Posso escolher um prestador específico?",
		Answer: "Sim. Na página do prestador use \"Solicitar orçamento\" para enviar um pedido visível apenas para ele."},
	{Topic: "clientes", SortOrder: 3, Question: "Como avalio o prestador?",
		Answer: "Depois de marcar o serviço como concluído você pode deixar uma nota de 1 a 5 estrelas e um comentário."},
	{Topic: "prestadores", SortOrder: 4, Question: "Quanto custa anunciar meus serviços?",
		Answer: "O cadastro de prestador é gratuito. Você define o valor da sua hora entre R$ 30 e R$ 500."},
	{Topic: "prestadores", SortOrder: 5, Question: "Como envio uma proposta?",
		Answer: "Abra o mural de pedidos, escolha um pedido pendente e informe o preço e uma mensagem para o cliente."},
	{Topic: "conta", SortOrder: 6, Question: "Não recebi o email de confirmação. O que faço?",
		Answer: "Verifique a caixa de spam ou peça um novo link na tela de confirmação de email."},
}

// Seed заполняет справочники: категории из реестра и FAQ.
// Повторный запуск ничего не дублирует.
func Seed(db *gorm.DB) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var created int64
	for _, c := range catalog.All() {
		category := models.Category{Slug: c.ID}
		result := tx.Where(models.Category{Slug: c.ID}).
			Attrs(models.Category{Name: c.Label, Icon: c.Icon}).
			FirstOrCreate(&category)
		if result.Error != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, result.Error)
		}
		created += result.RowsAffected
	}

	var faqCount int64
	if err := tx.Model(&models.FAQQuestion{}).Count(&faqCount).Error; err != nil {
		return fmt.Errorf("count faq: %w", err)
	}
	if faqCount == 0 {
		faq := make([]models.FAQQuestion, len(defaultFAQ))
		copy(faq, defaultFAQ)
		if err := tx.Create(&faq).Error; err != nil {
			return fmt.Errorf("seed faq: %w", err)
		}
		created += int64(len(faq))
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	logger.Info("Reference data seeded", "created", created)
	return nil
}
