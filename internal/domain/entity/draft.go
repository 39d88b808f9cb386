package entity

// Шаги мастера создания сделки.
const (
	DraftStepTitle       = 1
	DraftStepDescription = 2
	DraftStepPrice       = 3
	DraftStepRecipient   = 4
)

// Draft — многошаговый буфер ввода перед созданием сделки. На создателя
// живёт максимум один черновик; "создать сделку" перезаписывает его целиком.
type Draft struct {
	Step int // 1..4

	Title         string
	Description   string
	PriceValue    float64
	HasPrice      bool
	ExchangeTerms string
	Recipient     string
}

func NewDraft() Draft {
	return Draft{Step: DraftStepTitle}
}

func (d Draft) Complete() bool {
	return d.Title != "" &&
		d.Description != "" &&
		(d.HasPrice || d.ExchangeTerms != "") &&
		d.Recipient != ""
}
