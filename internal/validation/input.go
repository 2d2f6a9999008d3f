package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxNameLength          = 100
	MaxBioLength           = 1000
	MaxLocationLength      = 100
	MaxSkillNameLength     = 100
	MaxCategoryNameLength  = 100
	MaxCertifications      = 20
	MaxPortfolioURLs       = 20
	MaxURLLength           = 500
	MaxBookingTitleLength  = 200
	MaxBookingDescription  = 5000
	MaxBookingDuration     = 24 * 60
	MaxMessageLength       = 5000
	MaxContactMessage      = 2000
	MaxYearsOfExperience   = 80
	MinRating              = 1
	MaxRating              = 5
	MinHourlyRate          = 0.0
	MaxHourlyRate          = 100000.0
	MaxReviewCommentLength = 2000
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	timeOfDayRegex   = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

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

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateRequired проверяет непустую строку с ограничением длины.
func ValidateRequired(fieldName, value string, max int) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(value), 0, max)
}

// ValidateOptional проверяет длину необязательного поля.
func ValidateOptional(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, strings.TrimSpace(*value), 0, max)
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]
	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateHourlyRate проверяет почасовую ставку.
func ValidateHourlyRate(rate *float64) error {
	if rate == nil {
		return nil
	}
	if *rate < MinHourlyRate {
		return fmt.Errorf("почасовая ставка не может быть отрицательной")
	}
	if *rate > MaxHourlyRate {
		return fmt.Errorf("почасовая ставка не может превышать %.0f", MaxHourlyRate)
	}
	return nil
}

// ValidateURL проверяет абсолютную http(s) ссылку.
func ValidateURL(fieldName, link string) error {
	link = strings.TrimSpace(link)
	if err := ValidateLength(fieldName, link, 1, MaxURLLength); err != nil {
		return err
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%s: некорректный формат URL", fieldName)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: ссылка должна начинаться с http:// или https://", fieldName)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s: ссылка должна содержать доменное имя", fieldName)
	}
	return nil
}

// ValidateURLs проверяет список ссылок.
func ValidateURLs(fieldName string, links []string, max int) error {
	if len(links) > max {
		return fmt.Errorf("%s: не более %d ссылок", fieldName, max)
	}
	for _, link := range links {
		if err := ValidateURL(fieldName, link); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAvailabilityWindow проверяет окно доступности: день 0..6, время HH:MM, начало раньше конца.
func ValidateAvailabilityWindow(day int, start, end string) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("день недели должен быть от 0 до 6")
	}
	if !timeOfDayRegex.MatchString(start) || !timeOfDayRegex.MatchString(end) {
		return fmt.Errorf("время должно быть в формате HH:MM")
	}
	// формат фиксированной ширины, строки сравниваются лексикографически
	if start >= end {
		return fmt.Errorf("время начала должно быть раньше времени окончания")
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("рейтинг должен быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateDuration проверяет длительность сессии в минутах.
func ValidateDuration(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("длительность должна быть больше нуля")
	}
	if minutes > MaxBookingDuration {
		return fmt.Errorf("длительность не может превышать %d минут", MaxBookingDuration)
	}
	return nil
}

// ValidateYearsOfExperience проверяет стаж.
func ValidateYearsOfExperience(years *int) error {
	if years == nil {
		return nil
	}
	if *years < 0 || *years > MaxYearsOfExperience {
		return fmt.Errorf("стаж должен быть от 0 до %d лет", MaxYearsOfExperience)
	}
	return nil
}

// ValidateCertifications проверяет список сертификатов.
func ValidateCertifications(certs []string) error {
	if len(certs) > MaxCertifications {
		return fmt.Errorf("количество сертификатов не может превышать %d", MaxCertifications)
	}
	for _, c := range certs {
		if err := ValidateRequired("сертификат", c, MaxSkillNameLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", strings.TrimSpace(content), 1, MaxMessageLength)
}

// ValidateOneOf проверяет, что значение входит в допустимый набор.
func ValidateOneOf(fieldName, value string, allowed map[string]struct{}) error {
	if _, ok := allowed[value]; !ok {
		return fmt.Errorf("недопустимое значение поля %s: %q", fieldName, value)
	}
	return nil
}
