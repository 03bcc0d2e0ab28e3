package service

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nurpe/motorpool-trip-tickets/internal/model"
)

// Validate decodes raw user input into a typed ticket, recomputes the derived
// fuel fields and checks every field rule. Raw values may be strings, JSON
// numbers or nil; unknown keys and derived fields are ignored. When the result
// has errors the returned ticket still carries every field that decoded.
func Validate(raw map[string]any, defaultOfficer string) (model.TripTicket, ValidationErrors) {
	raw = withDefaults(raw, defaultOfficer)

	record, decodeErrs := decode(raw)
	inputs := FuelInputsFromRaw(raw)
	applyFuelTotals(&record, inputs)
	errs := checkRules(raw).merge(decodeErrs).merge(fuelTotalsErrors(inputs))

	if len(errs) == 0 {
		return record, nil
	}
	return record, errs
}

const (
	tagText   = "ticket_text"
	tagNumber = "ticket_number"
	tagDate   = "ticket_date"
)

var fieldValidator = newFieldValidator()

// fieldRules holds one validator rule per user-editable field.
var fieldRules = func() map[string]any {
	rules := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.spec.ReadOnly {
			continue
		}
		rules[f.spec.Name] = ruleFor(f.spec)
	}
	return rules
}()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	custom := map[string]validator.Func{
		tagText: func(fl validator.FieldLevel) bool {
			_, ok := fl.Field().Interface().(string)
			return ok
		},
		tagNumber: func(fl validator.FieldLevel) bool {
			_, ok := decodeNumber(fl.Field().Interface())
			return ok
		},
		tagDate: func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && validDate(s)
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// ruleFor puts the presence check first so that a nil value reports
// required or is skipped, never a type error.
func ruleFor(spec model.FieldSpec) string {
	presence := "omitempty"
	if spec.Required {
		presence = "required"
	}
	switch spec.Kind {
	case model.FieldKindNumber:
		return presence + "," + tagNumber
	case model.FieldKindDate:
		return presence + "," + tagText + "," + tagDate
	default:
		return presence + "," + tagText
	}
}

// checkRules runs fieldRules over raw values and maps each failure to its form message.
func checkRules(values map[string]any) ValidationErrors {
	var errs ValidationErrors
	for name, result := range fieldValidator.ValidateMap(values, fieldRules) {
		err, ok := result.(error)
		if !ok {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			errs = errs.merge(ValidationErrors{name: ruleMessage(fieldErrs[0])})
		}
	}
	return errs
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if v := fe.Value(); v != nil {
			if _, isText := v.(string); !isText {
				return MsgExpectedString
			}
		}
		return MsgRequired
	case tagNumber:
		return MsgExpectedNumber
	case tagDate:
		return MsgInvalidDate
	default:
		return MsgExpectedString
	}
}

func withDefaults(raw map[string]any, defaultOfficer string) map[string]any {
	out := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	if v, ok := out["authorizingOfficerName"]; !ok || v == nil {
		out["authorizingOfficerName"] = defaultOfficer
	}
	return out
}

// decode applies every known, user-editable field of raw onto an empty ticket.
// Its errors also cover zero values of the wrong type, which omitempty skips.
func decode(raw map[string]any) (model.TripTicket, ValidationErrors) {
	var (
		record model.TripTicket
		errs   ValidationErrors
	)
	for name, value := range raw {
		f, ok := lookupField(name)
		if !ok || f.spec.ReadOnly {
			continue
		}
		if msg := setField(&record, f, value); msg != "" {
			errs = errs.merge(ValidationErrors{name: msg})
		}
	}
	return record, errs
}

// setField writes value into the field and returns an error message when it
// cannot be decoded. On error the field is reset to its zero value.
func setField(t *model.TripTicket, f fieldDef, value any) string {
	if f.str != nil {
		s, ok := decodeString(value)
		if !ok {
			*f.str(t) = ""
			return MsgExpectedString
		}
		*f.str(t) = s
		return ""
	}

	n, ok := decodeNumber(value)
	if !ok {
		*f.num(t) = nil
		return MsgExpectedNumber
	}
	*f.num(t) = n
	return ""
}

func decodeString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

// decodeNumber coerces text or numeric values. Empty text and nil are absent.
func decodeNumber(value any) (*float64, bool) {
	var n float64
	switch v := value.(type) {
	case nil:
		return nil, true
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return nil, false
		}
		n = parsed
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil, true
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, false
		}
		n = parsed
	default:
		return nil, false
	}
	if !isFinite(n) {
		return nil, false
	}
	return &n, true
}

// FuelInputsFromRaw resolves the calculator inputs from raw values: absent
// entries are nil, malformed ones are NaN so the totals are left untouched.
func FuelInputsFromRaw(raw map[string]any) FuelInputs {
	input := func(name string) *float64 {
		n, ok := decodeNumber(raw[name])
		if !ok {
			nan := math.NaN()
			return &nan
		}
		return n
	}
	return FuelInputs{
		BalanceInTank:       input("fuelBalanceInTank"),
		IssuedFromStock:     input("fuelIssuedFromStock"),
		PurchasedDuringTrip: input("fuelPurchasedDuringTrip"),
		UsedDuringTrip:      input("fuelUsedDuringTrip"),
	}
}

// dateLayouts lists date-only first: the form's date picker sends YYYY-MM-DD,
// timestamps only arrive from API clients.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func validDate(raw string) bool {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}
