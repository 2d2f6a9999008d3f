package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"ada@example.com", " Ada.Lovelace+x@mail.example.org "}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "ada", "ada@", "@example.com", "ada@example", "a b@example.com"}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}

func TestValidateAvailabilityWindow(t *testing.T) {
	assert.NoError(t, ValidateAvailabilityWindow(1, "09:00", "17:30"))

	err := ValidateAvailabilityWindow(7, "09:00", "17:00")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "от 0 до 6")

	assert.Error(t, ValidateAvailabilityWindow(1, "9:00", "17:00"))
	assert.Error(t, ValidateAvailabilityWindow(1, "24:00", "25:00"))

	err = ValidateAvailabilityWindow(1, "17:00", "09:00")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "раньше")
	assert.Error(t, ValidateAvailabilityWindow(1, "10:00", "10:00"))
}

func TestValidateRating(t *testing.T) {
	for r := 1; r <= 5; r++ {
		assert.NoError(t, ValidateRating(r))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}

func TestValidateHourlyRate(t *testing.T) {
	neg, ok, huge := -1.0, 100.0, MaxHourlyRate+1

	assert.NoError(t, ValidateHourlyRate(nil))
	assert.NoError(t, ValidateHourlyRate(&ok))
	assert.Error(t, ValidateHourlyRate(&neg))
	assert.Error(t, ValidateHourlyRate(&huge))
}

func TestValidateURLs(t *testing.T) {
	assert.NoError(t, ValidateURLs("портфолио", []string{"https://example.com/work"}, 3))
	assert.Error(t, ValidateURLs("портфолио", []string{"ftp://example.com"}, 3))
	assert.Error(t, ValidateURLs("портфолио", []string{"https://"}, 3))
	assert.Error(t, ValidateURLs("портфолио", []string{"https://a.io", "https://b.io"}, 1))
}

func TestValidateMessageContent(t *testing.T) {
	assert.NoError(t, ValidateMessageContent("привет"))
	assert.Error(t, ValidateMessageContent("   "))
	assert.Error(t, ValidateMessageContent(strings.Repeat("я", MaxMessageLength+1)))
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(90))
	assert.Error(t, ValidateDuration(0))
	assert.Error(t, ValidateDuration(MaxBookingDuration+1))
}

func TestValidateOneOf(t *testing.T) {
	allowed := map[string]struct{}{"general": {}}
	assert.NoError(t, ValidateOneOf("тип", "general", allowed))
	assert.Error(t, ValidateOneOf("тип", "spam", allowed))
}
