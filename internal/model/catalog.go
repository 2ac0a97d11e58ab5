package model

// DefaultCatalog lists the FX series the twin serves out of the box.
func DefaultCatalog() []Series {
	fx := func(name, label, description string, base float64) Series {
		return Series{
			Name:        name,
			Label:       label,
			Description: description,
			Dimension:   DateDimension,
			BaseRate:    base,
		}
	}
	return []Series{
		fx("FXUSDCAD", "USD/CAD", "US dollar to Canadian dollar daily exchange rate", 1.3400),
		fx("FXCADUSD", "CAD/USD", "Canadian dollar to US dollar daily exchange rate", 0.7460),
		fx("FXEURCAD", "EUR/CAD", "European euro to Canadian dollar daily exchange rate", 1.4700),
		fx("FXCADEUR", "CAD/EUR", "Canadian dollar to European euro daily exchange rate", 0.6800),
		fx("FXAUDCAD", "AUD/CAD", "Australian dollar to Canadian dollar daily exchange rate", 0.9000),
		fx("FXCADAUD", "CAD/AUD", "Canadian dollar to Australian dollar daily exchange rate", 1.1100),
		fx("FXGBPCAD", "GBP/CAD", "UK pound sterling to Canadian dollar daily exchange rate", 1.7100),
		fx("FXJPYCAD", "JPY/CAD", "Japanese yen to Canadian dollar daily exchange rate", 0.0092),
		fx("FXCADJPY", "CAD/JPY", "Canadian dollar to Japanese yen daily exchange rate", 108.50),
	}
}
