// internal/pkg/validate/validate.go
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError describes one rule a record field failed
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// RecordError is returned when a record read from the data gateway does not
// match the shape the application expects.
type RecordError struct {
	Record string       `json:"record"`
	Fields []FieldError `json:"fields"`
}

func (e *RecordError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", f.Field, f.Rule, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
		}
	}
	return fmt.Sprintf("invalid %s record: %s", e.Record, strings.Join(parts, ", "))
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New()

		// Report json names so errors line up with what the gateway returned
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Money fields are validated as numbers (gte=0 and friends)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		instance = v
	})
	return instance
}

// Record validates rec against its `validate` struct tags. A failing record
// yields a *RecordError named after record.
func Record(record string, rec interface{}) error {
	err := get().Struct(rec)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("failed to validate %s record: %w", record, err)
	}

	out := &RecordError{Record: record, Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// IsRecordError reports whether err carries a *RecordError
func IsRecordError(err error) bool {
	var re *RecordError
	return errors.As(err, &re)
}
