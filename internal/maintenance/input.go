package maintenance

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DateTimeLayout - формат дат задач (ДД.ММ.ГГГГ ЧЧ:ММ)
const DateTimeLayout = "02.01.2006 15:04"

var phoneRegex = regexp.MustCompile(`^\d{11}$`)

// ValidatePhone проверяет, что номер состоит ровно из 11 цифр
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return &ValidationError{Field: "phone_number", Message: "номер телефона должен состоять из 11 цифр"}
	}
	return nil
}

func ValidateGender(g Gender) error {
	if g != GenderMale && g != GenderFemale {
		return &ValidationError{Field: "gender", Message: "пол должен быть 'М' или 'Ж'"}
	}
	return nil
}

// ParseStatus возвращает статус, если строка совпадает с одним из допустимых значений
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNotDone, StatusInProgress, StatusDone, StatusCancelled:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Message: "недопустимый статус: " + s}
}

// ValidateDateTime проверяет формат даты. Порядок начала и окончания не проверяется.
func ValidateDateTime(field, value string) error {
	if _, err := time.Parse(DateTimeLayout, value); err != nil {
		return &ValidationError{Field: field, Message: "неверный формат даты и времени (ДД.ММ.ГГГГ ЧЧ:ММ)"}
	}
	return nil
}

func validateText(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < minLen || utf8.RuneCountInString(value) > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("длина должна быть от %d до %d символов", minLen, maxLen)}
	}
	return nil
}

// SanitizeString удаляет управляющие символы и пробелы по краям
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	var builder strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
