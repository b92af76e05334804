package schema

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// isoDateTimeRe accepts a calendar date, a 24h time with optional seconds and
// fractional seconds, and a mandatory UTC designator.
var isoDateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T([01]\d|2[0-3]):[0-5]\d(:[0-5]\d(\.\d+)?)?Z$`)

var maxUUID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

// engine returns the shared validator, configured once.
func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report json names ("lastMaintained") rather than Go names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister(v, "trailuuid", func(fl validator.FieldLevel) bool {
			return isTrailUUID(fl.Field().String())
		})
		mustRegister(v, "isodatetime", func(fl validator.FieldLevel) bool {
			_, ok := parseISODateTime(fl.Field().String())
			return ok
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("schema: register " + tag + ": " + err.Error())
	}
}

// isTrailUUID reports whether s is a canonical hyphenated UUID with the
// RFC 9562 variant and a version between 1 and 8. The nil and max UUIDs are
// also accepted.
func isTrailUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	if u == uuid.Nil || u == maxUUID {
		return true
	}
	v := u.Version()
	return u.Variant() == uuid.RFC4122 && v >= 1 && v <= 8
}

// parseISODateTime parses s as an ISO-8601 UTC date-time. The calendar date
// must exist: 2023-02-29 is rejected.
func parseISODateTime(s string) (time.Time, bool) {
	if !isoDateTimeRe.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// issueFor turns a failed tag into an issue code and message.
func issueFor(fe validator.FieldError) (code, message string) {
	switch fe.Tag() {
	case "required":
		return "required", "is required"
	case "min":
		return "too_small", "must contain at least " + fe.Param() + " character(s)"
	case "trailuuid":
		return "invalid_uuid", "must be a valid UUID"
	case "oneof":
		return "invalid_enum", "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "isodatetime":
		return "invalid_datetime", "must be an ISO-8601 date-time in UTC, e.g. 2024-05-01T09:30:00Z"
	default:
		return fe.Tag(), "failed " + fe.Tag() + " validation"
	}
}
