package reply

import (
	"context"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"iris_api/pkg/contextx"
	"iris_api/pkg/errcodes"
	"iris_api/pkg/logx"
	"iris_api/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func HTML(ctx context.Context, w http.ResponseWriter, statusCode int, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	if _, err := w.Write(page); err != nil {
		logger(ctx).Error("w.Write", logx.Error(err))
	}
}

// Error renders err as rest.Error. Client errors keep their description,
// everything else is reported as a generic server error.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status := failure.HTTPStatus(err)

	response := rest.Error{
		Code:      rest.ErrorCode(failure.Code(err)),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	if status >= http.StatusInternalServerError {
		logger(ctx).Error("error", logx.Error(err))
	} else {
		logger(ctx).Warn("client error", logx.Error(err))
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		withDefault(&response, errcodes.ValidationError, "Validation error")
	case http.StatusNotFound:
		withDefault(&response, errcodes.NotFound, "Not found")
	case http.StatusRequestTimeout:
		withDefault(&response, errcodes.TimeoutExceeded, "Timeout exceeded")
	case http.StatusInternalServerError:
		withDefault(&response, errcodes.InternalServerError, "Internal server error")
	}

	JSON(ctx, w, status, response)
}

func withDefault(response *rest.Error, code failure.ErrorCode, message string) {
	if response.Code == "" {
		response.Code = rest.ErrorCode(code)
	}

	if response.Message == "" {
		response.Message = message
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
