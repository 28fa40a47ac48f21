package models

// PriceInfo цена премиума для региона. Amount в минорных единицах валюты.
type PriceInfo struct {
	Currency string `json:"currency"`
	Amount   int    `json:"amount"`
	Label    string `json:"label"`
	Symbol   string `json:"symbol"`
}

// Helpline телефон доверия для региона.
type Helpline struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

var pricing = map[Region]PriceInfo{
	RegionIndia: {
		Currency: "INR",
		Amount:   49900, // в пайсах
		Label:    "₹499",
		Symbol:   "₹",
	},
	RegionGlobal: {
		Currency: "USD",
		Amount:   999, // в центах
		Label:    "$9.99",
		Symbol:   "$",
	},
}

var helplines = map[Region]Helpline{
	RegionIndia: {
		Name:   "Kiran (Mental Health Rehab)",
		Number: "1800-599-0019",
	},
	RegionGlobal: {
		Name:   "Universal Emergency",
		Number: "911 / 112",
	},
}

// PricingFor возвращает цену для региона, для неизвестного региона — GLOBAL.
func PricingFor(r Region) PriceInfo {
	if p, ok := pricing[r]; ok {
		return p
	}
	return pricing[RegionGlobal]
}

// HelplineFor возвращает телефон доверия для региона, для неизвестного — GLOBAL.
func HelplineFor(r Region) Helpline {
	if h, ok := helplines[r]; ok {
		return h
	}
	return helplines[RegionGlobal]
}
