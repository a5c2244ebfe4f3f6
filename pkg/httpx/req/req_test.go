package req_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"iris_api/pkg/errcodes"
	"iris_api/pkg/httpx/req"
	"iris_api/pkg/rest"
)

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
}

func TestRead(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		body        string
		invalidArg  bool
		unprocessed bool
		description string
	}{
		{
			name: "Valid",
			body: `{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`,
		},
		{
			name: "Zero is a value",
			body: `{"sepal_length":0,"sepal_width":0,"petal_length":0,"petal_width":10}`,
		},
		{
			name:        "Broken JSON",
			body:        `{"sepal_length":`,
			invalidArg:  true,
			description: "Invalid JSON",
		},
		{
			name: "Trailing whitespace",
			body: `{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}` + "\n\t ",
		},
		{
			name:        "Trailing garbage",
			body:        `{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2} xyz`,
			invalidArg:  true,
			description: "Invalid JSON",
		},
		{
			name: "Two objects",
			body: `{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}` +
				`{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`,
			invalidArg:  true,
			description: "Invalid JSON",
		},
		{
			name:        "Negative value",
			body:        `{"sepal_length":-1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`,
			unprocessed: true,
			description: "sepal_length: must be greater than or equal to 0",
		},
		{
			name:        "Too large",
			body:        `{"sepal_length":15,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`,
			unprocessed: true,
			description: "sepal_length: must be less than or equal to 10",
		},
		{
			name:        "Missing field",
			body:        `{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4}`,
			unprocessed: true,
			description: "petal_width: field required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var m rest.Measurement

			err := req.Read(newRequest(tc.body), &m)

			switch {
			case tc.invalidArg:
				rq.True(failure.IsInvalidArgumentError(err))
				rq.Equal(tc.description, failure.Description(err))
			case tc.unprocessed:
				rq.True(failure.IsUnprocessableEntityError(err))
				rq.Equal(errcodes.ValidationError, failure.Code(err))
				rq.Equal(tc.description, failure.Description(err))
			default:
				rq.NoError(err)
				rq.NotNil(m.PetalWidth)
			}
		})
	}
}

func TestReadList(t *testing.T) {
	rq := require.New(t)

	items, err := req.ReadList[rest.Measurement](newRequest(`[]`), 10)
	rq.NoError(err)
	rq.NotNil(items)
	rq.Empty(items)

	items, err = req.ReadList[rest.Measurement](newRequest(
		`[{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2},
		  {"sepal_length":7.0,"sepal_width":3.2,"petal_length":4.7,"petal_width":1.4}]`), 10)
	rq.NoError(err)
	rq.Len(items, 2)
	rq.InDelta(7.0, *items[1].SepalLength, 1e-9)

	_, err = req.ReadList[rest.Measurement](newRequest(
		`[{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2},
		  {"sepal_length":7.0,"sepal_width":30,"petal_length":4.7,"petal_width":1.4}]`), 10)
	rq.True(failure.IsUnprocessableEntityError(err))
	rq.Equal("[1]sepal_width: must be less than or equal to 10", failure.Description(err))

	_, err = req.ReadList[rest.Measurement](newRequest(`[{},{},{}]`), 2)
	rq.True(failure.IsUnprocessableEntityError(err))
	rq.Equal(errcodes.BatchTooLarge, failure.Code(err))

	_, err = req.ReadList[rest.Measurement](newRequest(`{"sepal_length":1}`), 2)
	rq.True(failure.IsInvalidArgumentError(err))
}

func TestReadBodyTooLarge(t *testing.T) {
	rq := require.New(t)

	body := "[" + strings.Repeat(`{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2},`, 20)
	body = strings.TrimSuffix(body, ",") + "]"

	r := newRequest(body)
	r.Body = http.MaxBytesReader(httptest.NewRecorder(), r.Body, 256)

	_, err := req.ReadList[rest.Measurement](r, 1000)
	rq.True(failure.IsUnprocessableEntityError(err))
	rq.Equal(errcodes.RequestTooLarge, failure.Code(err))
	rq.Equal("request body exceeds 256 bytes", failure.Description(err))

	r = newRequest(`{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}` + strings.Repeat(" ", 512))
	r.Body = http.MaxBytesReader(httptest.NewRecorder(), r.Body, 256)

	var m rest.Measurement

	err = req.Read(r, &m)
	rq.Equal(errcodes.RequestTooLarge, failure.Code(err), "the limit covers trailing bytes too")
}
