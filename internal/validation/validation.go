package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagPostalCode    = "postalcode"
	TagISODate       = "isodate"
	TagNotPast       = "notpast"
	TagPhoneJP       = "phonejp"
	TagUserID        = "userid"
	TagNotFutureYear = "notfutureyear"
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{3}-\d{4}$`)
	phonePattern      = regexp.MustCompile(`^0\d{1,4}-\d{1,4}-\d{4}$`)
	userIDPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonDigits         = regexp.MustCompile(`\D`)
)

// now is replaced in tests.
var now = time.Now

// RegisterGin installs the custom rules on gin's binding validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]validator.Func{
		TagPostalCode:    matches(postalCodePattern),
		TagPhoneJP:       phoneJP,
		TagUserID:        matches(userIDPattern),
		TagISODate:       isoDate,
		TagNotPast:       notPast,
		TagNotFutureYear: notFutureYear,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// phoneJP accepts an empty value so a profile can clear its number.
func phoneJP(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || phonePattern.MatchString(s)
}

func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !isoDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// notPast accepts today or any later calendar date.
func notPast(fl validator.FieldLevel) bool {
	d, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}
	t := now()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(today)
}

func notFutureYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(now().Year())
}

// FormatPostalCode keeps the digits and inserts the hyphen after three.
func FormatPostalCode(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) <= 3 {
		return digits
	}
	if len(digits) > 7 {
		digits = digits[:7]
	}
	return digits[:3] + "-" + digits[3:]
}

// FormatPhoneNumber groups digits as 3-4-4.
func FormatPhoneNumber(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 7:
		return digits[:3] + "-" + digits[3:]
	}
	if len(digits) > 11 {
		digits = digits[:11]
	}
	return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
}
