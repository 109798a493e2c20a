package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength           = 3
	MaxUsernameLength           = 30
	MinDisplayNameLength        = 2
	MaxDisplayNameLength        = 100
	MinBookingDescriptionLength = 5
	MaxBookingDescriptionLength = 3000
	MaxReviewCommentLength      = 2000
	MaxBioLength                = 1000
	MaxLocationLength           = 100
	MaxSkillLength              = 50
	MaxSkillsCount              = 50
	MinRate                     = 0.0
	MaxRate                     = 1000000.0 // миллион за час или день — потолок от здравого смысла
	MinMessageLength            = 1
	MaxMessageLength            = 5000
	MaxPhoneLength              = 20
)

// DateLayout — формат дат в API: календарная дата без времени.
const DateLayout = "2006-01-02"

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

	// Базовая проверка формата
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

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	// Только буквы, цифры и подчеркивание
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("отображаемое имя обязательно")
	}

	displayName = strings.TrimSpace(displayName)

	if err := ValidateLength("отображаемое имя", displayName, MinDisplayNameLength, MaxDisplayNameLength); err != nil {
		return err
	}

	displayNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,!?()]+$`)
	if !displayNameRegex.MatchString(displayName) {
		return fmt.Errorf("отображаемое имя содержит недопустимые символы")
	}

	return nil
}

// ValidateBookingDescription проверяет описание работы в заказе.
func ValidateBookingDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание работы обязательно")
	}

	description = strings.TrimSpace(description)

	if err := ValidateLength("описание работы", description, MinBookingDescriptionLength, MaxBookingDescriptionLength); err != nil {
		return err
	}

	return nil
}

// ValidateReviewComment проверяет текст отзыва.
func ValidateReviewComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if err := ValidateLength("текст отзыва", comment, 0, MaxReviewCommentLength); err != nil {
		return err
	}
	return nil
}

// ValidateRate проверяет ставку исполнителя (почасовую или дневную).
func ValidateRate(fieldName string, rate float64) error {
	if rate < MinRate {
		return fmt.Errorf("%s не может быть отрицательной", fieldName)
	}
	if rate > MaxRate {
		return fmt.Errorf("%s не может превышать %.0f", fieldName, MaxRate)
	}
	return nil
}

// ValidateSkills проверяет массив навыков. Анкета без навыков не имеет
// смысла, поэтому требуется хотя бы один.
func ValidateSkills(skills []string) error {
	if len(skills) == 0 {
		return fmt.Errorf("укажите хотя бы один навык")
	}
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("количество навыков не может превышать %d", MaxSkillsCount)
	}

	seen := make(map[string]bool)
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return fmt.Errorf("навык не может быть пустым")
		}

		if utf8.RuneCountInString(skill) > MaxSkillLength {
			return fmt.Errorf("навык не может быть длиннее %d символов", MaxSkillLength)
		}

		// Дубликаты ловим без учёта регистра
		skillLower := strings.ToLower(skill)
		if seen[skillLower] {
			return fmt.Errorf("навык '%s' указан дважды", skill)
		}
		seen[skillLower] = true
	}

	return nil
}

// ValidateLocation проверяет местоположение.
func ValidateLocation(location *string) error {
	if location != nil && *location != "" {
		loc := strings.TrimSpace(*location)
		if err := ValidateLength("местоположение", loc, 0, MaxLocationLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBio проверяет описание в анкете.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		bioStr := strings.TrimSpace(*bio)
		if err := ValidateLength("описание анкеты", bioStr, 0, MaxBioLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePhone проверяет номер телефона.
func ValidatePhone(phone *string) error {
	if phone == nil || *phone == "" {
		return nil
	}

	p := strings.TrimSpace(*phone)
	if err := ValidateLength("телефон", p, 0, MaxPhoneLength); err != nil {
		return err
	}

	phoneRegex := regexp.MustCompile(`^\+?[0-9\s\-()]{5,20}$`)
	if !phoneRegex.MatchString(p) {
		return fmt.Errorf("телефон имеет некорректный формат")
	}

	return nil
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	if content == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}

	content = strings.TrimSpace(content)

	if err := ValidateLength("сообщение", content, MinMessageLength, MaxMessageLength); err != nil {
		return err
	}

	return nil
}

// ParseDate разбирает календарную дату из строки формата YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("дата должна быть в формате %s", DateLayout)
	}
	return date, nil
}

// ValidateStartTime проверяет время начала работ в формате HH:MM.
func ValidateStartTime(startTime *string) error {
	if startTime == nil || *startTime == "" {
		return nil
	}

	timeRegex := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	if !timeRegex.MatchString(strings.TrimSpace(*startTime)) {
		return fmt.Errorf("время начала должно быть в формате ЧЧ:ММ")
	}

	return nil
}
