package models

// FairyTypes lists the categories a user can pick at registration, in display order.
var FairyTypes = []string{
	"Fada da Natureza",
	"Fada do Fogo",
	"Fada da Água",
	"Fada da Luz",
	"Fada da Tecnologia",
	"Fada da Música",
}

// IsFairyType reports whether t is one of FairyTypes.
func IsFairyType(t string) bool {
	for _, ft := range FairyTypes {
		if ft == t {
			return true
		}
	}
	return false
}
