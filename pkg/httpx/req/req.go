package req

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"iris_api/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	validate = newValidator()                               //nolint:gochecknoglobals // skip
)

var errTrailingData = errors.New("unexpected data after the JSON value")

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Read decodes a JSON object into dest and validates it. Malformed JSON is an
// invalid argument, a well-formed body with bad fields is unprocessable.
func Read(r *http.Request, dest any) error {
	if err := decode(r, dest); err != nil {
		return err
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return validationError(err, "")
	}

	return nil
}

// ReadList decodes a JSON array and validates every element.
func ReadList[T any](r *http.Request, maxLen int) ([]T, error) {
	var items []T

	if err := decode(r, &items); err != nil {
		return nil, err
	}

	if maxLen > 0 && len(items) > maxLen {
		return nil, failure.NewUnprocessableEntityError(
			"batch too large",
			failure.WithCode(errcodes.BatchTooLarge),
			failure.WithDescription(fmt.Sprintf("at most %d items per request, got %d", maxLen, len(items))),
		)
	}

	if err := validateEach(r.Context(), items); err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

func validateEach[T any](ctx context.Context, items []T) error {
	for i := range items {
		if err := validate.StructCtx(ctx, &items[i]); err != nil {
			return validationError(err, fmt.Sprintf("[%d]", i))
		}
	}

	return nil
}

// decode reads exactly one JSON value. Anything but whitespace after it
// makes the body invalid.
func decode(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dest)
	if err == nil {
		err = readToEOF(io.MultiReader(dec.Buffered(), r.Body))
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return failure.NewUnprocessableEntityError(
			"request body too large",
			failure.WithCode(errcodes.RequestTooLarge),
			failure.WithDescription(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)),
		)
	}

	if err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Decode: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	return nil
}

func readToEOF(rest io.Reader) error {
	tail, err := io.ReadAll(rest)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(tail)) > 0 {
		return errTrailingData
	}

	return nil
}

func validationError(err error, prefix string) error {
	return failure.NewUnprocessableEntityError(
		"validation error",
		failure.WithCode(errcodes.ValidationError),
		failure.WithDescription(describe(err, prefix)),
	)
}

func describe(err error, prefix string) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrors))

	for _, fe := range fieldErrors {
		field := prefix + fe.Field()

		switch fe.Tag() {
		case "required":
			messages = append(messages, field+": field required")
		case "gte":
			messages = append(messages, fmt.Sprintf("%s: must be greater than or equal to %s", field, fe.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s: must be less than or equal to %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s: failed on %q", field, fe.Tag()))
		}
	}

	return strings.Join(messages, "; ")
}
