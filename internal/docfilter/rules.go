package docfilter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the ordered keyword tables driving filename classification.
// Matching semantics depend on order: exclude markers are always checked
// before include markers, and exclude wins when both are present.
type Rules struct {
	// Include markers: technical-specification vocabulary. A normalized
	// name containing any of these is kept.
	Include []string `yaml:"include"`

	// Exclude markers: contractual/administrative vocabulary. A normalized
	// name containing any of these is discarded regardless of other signals.
	Exclude []string `yaml:"exclude"`

	// DisallowedExtensions are rejected unconditionally, before any
	// name-based checks. Spreadsheets never carry requirement text worth
	// extracting.
	DisallowedExtensions []string `yaml:"disallowed_extensions"`

	// MaxNeutralNameLength bounds the "short neutral name" rule: an
	// alphanumeric name at most this many runes long is kept even without
	// include markers (covers attachments named like "123.pdf").
	MaxNeutralNameLength int `yaml:"max_neutral_name_length"`
}

// DefaultRules returns the built-in rule tables for Russian public
// procurement documentation.
func DefaultRules() Rules {
	return Rules{
		Include: []string{
			"тз", "техническое задание", "описание объекта", "описание закупки",
			"ведомость поставки", "спецификация", "размеры", "габариты",
			"сорт", "состав продукции", "характеристики", "параметры",
			"гост", "ту", "условия поставки", "требования к товару",
			"потребительские свойства", "качество товара", "декларация соответствия",
		},
		Exclude: []string{
			"контракт", "договор", "проект контракта", "проект договора",
			"инструкция", "требования к заявке", "состав заявки", "оформление заявки",
			"заявка", "заявление", "нмцк", "обоснование", "расчет",
			"уведомление", "гарантия", "обязательство", "оценка",
			"методика", "баллы", "контроль", "лист согласования",
			"форма", "цп", "решение", "протокол", "анкета",
			"согласие", "образец заполнения", "реквизиты", "регистр",
			"сведения о заказчике", "данные заказчика", "сопроводительное",
			"участник закупки", "участника", "отчет",
		},
		DisallowedExtensions: []string{".xls", ".xlsx"},
		MaxNeutralNameLength: 25,
	}
}

// LoadRules reads rule tables from a YAML file. Fields missing from the
// file keep their defaults, so a partial override file is valid.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}

	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return rules, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(override.Include) > 0 {
		rules.Include = override.Include
	}
	if len(override.Exclude) > 0 {
		rules.Exclude = override.Exclude
	}
	if len(override.DisallowedExtensions) > 0 {
		rules.DisallowedExtensions = override.DisallowedExtensions
	}
	if override.MaxNeutralNameLength > 0 {
		rules.MaxNeutralNameLength = override.MaxNeutralNameLength
	}

	return rules, nil
}
