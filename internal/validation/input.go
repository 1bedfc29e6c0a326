package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinGovIDLength     = 5
	MaxGovIDLength     = 20
	MinNameLength      = 1
	MaxNameLength      = 100
	MaxWalletLength    = 128
	MaxEmbeddingLength = 4096
)

var govIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateGovID проверяет формат государственного идентификатора.
func ValidateGovID(govID string) error {
	if govID == "" {
		return fmt.Errorf("gov_id обязателен")
	}

	govID = strings.TrimSpace(govID)

	if err := ValidateLength("gov_id", govID, MinGovIDLength, MaxGovIDLength); err != nil {
		return err
	}

	if !govIDRegex.MatchString(govID) {
		return fmt.Errorf("gov_id может содержать только буквы, цифры и дефис")
	}

	return nil
}

// ValidateName проверяет имя или фамилию.
func ValidateName(fieldName, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s обязательно", fieldName)
	}
	return ValidateLength(fieldName, name, MinNameLength, MaxNameLength)
}

// ValidateWalletAddress проверяет адрес кошелька.
func ValidateWalletAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("адрес кошелька обязателен")
	}
	return ValidateLength("адрес кошелька", address, 1, MaxWalletLength)
}
