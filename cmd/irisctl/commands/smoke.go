package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"iris_api/pkg/httpx"
	"iris_api/pkg/logx"
	"iris_api/pkg/rest"
	"iris_api/pkg/tests"
)

const probabilitySumTolerance = 1e-6

var errChecksFailed = errors.New("smoke checks failed")

type smokeExample struct {
	name        string
	measurement rest.Measurement
	expected    string
}

func smokeExamples() []smokeExample {
	return []smokeExample{
		{name: "setosa example", measurement: measurement(5.1, 3.5, 1.4, 0.2), expected: "setosa"},
		{name: "versicolor example", measurement: measurement(7.0, 3.2, 4.7, 1.4), expected: "versicolor"},
		{name: "virginica example", measurement: measurement(6.3, 3.3, 6.0, 2.5), expected: "virginica"},
	}
}

type invalidPayload struct {
	name string
	body string
}

func invalidPayloads() []invalidPayload {
	return []invalidPayload{
		{
			name: "negative value",
			body: `{"sepal_length":-1.0,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`,
		},
		{
			name: "value too large",
			body: `{"sepal_length":15.0,"sepal_width":3.5,"petal_length":1.4,"petal_width":0.2}`,
		},
		{
			name: "missing field",
			body: `{"sepal_length":5.1,"sepal_width":3.5,"petal_length":1.4}`,
		},
	}
}

func smokeCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Check a running API end to end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			httpClient := &http.Client{
				Timeout: timeout,
				Transport: httpx.NewLoggingRoundTripper(
					http.DefaultTransport,
					httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				),
			}

			api := tests.NewAPIClient(strings.TrimRight(baseURL, "/"), httpClient)

			return runSmoke(cmd.Context(), cmd.OutOrStdout(), api)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8000", "API base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout") //nolint:mnd

	return cmd
}

type smokeRunner struct {
	api    tests.APIClient
	out    io.Writer
	failed int
	total  int
}

// runSmoke stops after a failed health check, since nothing else can pass.
func runSmoke(ctx context.Context, out io.Writer, api tests.APIClient) error {
	r := &smokeRunner{api: api, out: out}

	if !r.check("health", func() error { return r.health(ctx) }) {
		return fmt.Errorf("%w: health check failed, is the API running?", errChecksFailed)
	}

	for _, ex := range smokeExamples() {
		r.check("predict "+ex.name, func() error { return r.predict(ctx, ex) })
	}

	r.check("predict batch", func() error { return r.batch(ctx) })

	for _, p := range invalidPayloads() {
		r.check("reject "+p.name, func() error { return r.rejects(ctx, p) })
	}

	fmt.Fprintf(out, "\n%d/%d checks passed\n", r.total-r.failed, r.total)

	if r.failed > 0 {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, r.failed, r.total)
	}

	return nil
}

func (r *smokeRunner) check(name string, fn func() error) bool {
	r.total++

	if err := fn(); err != nil {
		r.failed++
		fmt.Fprintf(r.out, "FAIL %s: %v\n", name, err)

		return false
	}

	fmt.Fprintf(r.out, "ok   %s\n", name)

	return true
}

func (r *smokeRunner) health(ctx context.Context) error {
	res, err := r.api.Health(ctx)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", res.StatusCode)
	}

	if !res.Body.IsModelLoaded {
		return errors.New("model is not loaded")
	}

	return nil
}

func (r *smokeRunner) predict(ctx context.Context, ex smokeExample) error {
	res, err := r.api.Predict(ctx, ex.measurement)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", res.StatusCode, res.Error.Message)
	}

	return checkPrediction(res.Body, ex.expected)
}

func (r *smokeRunner) batch(ctx context.Context) error {
	examples := smokeExamples()

	res, err := r.api.PredictBatch(ctx, lo.Map(examples, func(ex smokeExample, _ int) rest.Measurement {
		return ex.measurement
	}))
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", res.StatusCode, res.Error.Message)
	}

	if len(res.Body.Predictions) != len(examples) {
		return fmt.Errorf("got %d predictions for %d samples", len(res.Body.Predictions), len(examples))
	}

	for i, p := range res.Body.Predictions {
		if err = checkPrediction(p, examples[i].expected); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}

	return nil
}

func (r *smokeRunner) rejects(ctx context.Context, p invalidPayload) error {
	res, err := r.api.PredictJSON(ctx, p.body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusUnprocessableEntity {
		return fmt.Errorf("status %d, want %d", res.StatusCode, http.StatusUnprocessableEntity)
	}

	return nil
}

func checkPrediction(p rest.Prediction, expected string) error {
	if p.Species != expected {
		return fmt.Errorf("predicted %q, want %q (confidence %.4f)", p.Species, expected, p.Confidence)
	}

	sum := lo.Sum(lo.Values(p.Probabilities))
	if math.Abs(sum-1) > probabilitySumTolerance {
		return fmt.Errorf("probabilities sum to %.6f", sum)
	}

	return nil
}

func measurement(sepalLength, sepalWidth, petalLength, petalWidth float64) rest.Measurement {
	return rest.Measurement{
		SepalLength: lo.ToPtr(sepalLength),
		SepalWidth:  lo.ToPtr(sepalWidth),
		PetalLength: lo.ToPtr(petalLength),
		PetalWidth:  lo.ToPtr(petalWidth),
	}
}
