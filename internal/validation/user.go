// Package validation checks and normalizes user input before it reaches the services.
package validation

import (
	"regexp"

	"instawinx/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// ValidateUsername enforces length, charset and the no leading or trailing separator rule.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength {
		return models.NewValidationError("O nome de usuário deve ter pelo menos 3 caracteres")
	}
	if len(username) > maxUsernameLength {
		return models.NewValidationError("O nome de usuário deve ter no máximo 30 caracteres")
	}
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("O nome de usuário só pode conter letras, números, _ e -")
	}
	first, last := username[0], username[len(username)-1]
	if first == '_' || first == '-' || last == '_' || last == '-' {
		return models.NewValidationError("O nome de usuário não pode começar ou terminar com _ ou -")
	}
	return nil
}

// ValidatePassword checks the byte length only.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return models.NewValidationError("A senha deve ter pelo menos 6 caracteres")
	}
	if len(password) > maxPasswordLength {
		return models.NewValidationError("A senha deve ter no máximo 72 bytes")
	}
	return nil
}

func ValidateFairyType(fairyType string) error {
	if !models.IsFairyType(fairyType) {
		return models.NewValidationError("Tipo de fada inválido")
	}
	return nil
}
