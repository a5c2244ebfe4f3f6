package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"iris_api/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient is a small JSON client for exercising a running API: the smoke
// command and the server tests both talk to the service through it. The
// generic Get/Post methods take any endpoint; Health, Predict and
// PredictBatch wrap the prediction API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(
	baseURL string,
	httpClient *http.Client,
) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (a APIClient) Get(
	ctx context.Context,
	endpoint string,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.httpRequest(ctx, http.MethodGet, endpoint, http.NoBody, dest, errDest)
}

func (a APIClient) Post(
	ctx context.Context,
	endpoint string,
	request any,
	dest any,
	errDest any,
) (*http.Response, error) {
	b, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.httpRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(b), dest, errDest)
}

// PostJSON sends requestJSON verbatim, for payloads the typed request
// structs cannot express (missing fields, wrong types).
func (a APIClient) PostJSON(
	ctx context.Context,
	endpoint string,
	requestJSON string,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.httpRequest(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte(requestJSON)), dest, errDest)
}

func (a APIClient) httpRequest(
	ctx context.Context,
	httpMethod string,
	endpoint string,
	payload io.Reader,
	dest any,
	errDest any,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, httpMethod, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if httpMethod == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	if err = parseResponse(resp, dest, errDest); err != nil {
		return nil, fmt.Errorf("parseResponse: %w", err)
	}

	return resp, nil
}

func parseResponse(r *http.Response, dest, errDest any) error {
	if r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices && dest != nil {
		if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
			return fmt.Errorf("json.Decode(success destination): %w", err)
		}
	} else if errDest != nil {
		if err := json.NewDecoder(r.Body).Decode(errDest); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("json.Decode(err destination): %w", err)
		}
	}

	return nil
}

// Result is a decoded API response: Body is filled on 2xx, Error otherwise.
type Result[T any] struct {
	StatusCode int
	Body       T
	Error      rest.Error
}

func (a APIClient) Health(ctx context.Context) (Result[rest.Health], error) {
	return call[rest.Health](ctx, a, http.MethodGet, "/health", nil)
}

func (a APIClient) Predict(ctx context.Context, m rest.Measurement) (Result[rest.Prediction], error) {
	return call[rest.Prediction](ctx, a, http.MethodPost, "/predict", m)
}

// PredictJSON posts body verbatim to /predict.
func (a APIClient) PredictJSON(ctx context.Context, body string) (Result[rest.Prediction], error) {
	var result Result[rest.Prediction]

	resp, err := a.PostJSON(ctx, "/predict", body, &result.Body, &result.Error)
	if err != nil {
		return result, fmt.Errorf("POST /predict: %w", err)
	}

	result.StatusCode = resp.StatusCode

	return result, nil
}

func (a APIClient) PredictBatch(ctx context.Context, ms []rest.Measurement) (Result[rest.BatchPrediction], error) {
	return call[rest.BatchPrediction](ctx, a, http.MethodPost, "/predict/batch", ms)
}

func call[T any](ctx context.Context, a APIClient, method, endpoint string, request any) (Result[T], error) {
	var (
		result Result[T]
		resp   *http.Response
		err    error
	)

	if request == nil {
		resp, err = a.Get(ctx, endpoint, &result.Body, &result.Error)
	} else {
		resp, err = a.Post(ctx, endpoint, request, &result.Body, &result.Error)
	}

	if err != nil {
		return result, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	result.StatusCode = resp.StatusCode

	return result, nil
}
