package models

// All перечисляет модели в порядке миграции (сначала справочники).
func All() []interface{} {
	return []interface{}{
		&Category{},
		&FAQQuestion{},
		&User{},
		&Profile{},
		&AuthSession{},
		&ServiceProvider{},
		&ServiceRequest{},
		&Proposal{},
		&Review{},
	}
}
