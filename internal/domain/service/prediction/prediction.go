// Package prediction serves species predictions from a fitted classifier.
package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"

	"iris_api/internal/domain"
	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
	"iris_api/pkg/contextx"
	"iris_api/pkg/errcodes"
	"iris_api/pkg/logx"
	"iris_api/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultCacheTTL       = 10 * time.Minute
	defaultJournalBuffer  = 1024
	defaultJournalTimeout = 5 * time.Second
)

type Classifier interface {
	Predict(x []float64) (int, []float64, error)
}

type Journal interface {
	Record(ctx context.Context, record entity.PredictionRecord) error
}

type Service struct {
	model        Classifier
	modelVersion string
	memo         *cache.Cache
	metrics      *metrics.PredictionCollector

	journal        Journal
	records        chan entity.PredictionRecord
	journalTimeout time.Duration
}

// NewService wraps a fitted classifier. A nil model makes the service
// report not ready and fail every prediction.
func NewService(
	model Classifier,
	modelVersion string,
	collector *metrics.PredictionCollector,
) *Service {
	return &Service{
		model:        model,
		modelVersion: modelVersion,
		memo:         cache.New(defaultCacheTTL, 2*defaultCacheTTL),
		metrics:      collector,
	}
}

// WithJournal hands every served prediction to j in the background. Up to
// buffer records wait for RunJournal; past that they are dropped and
// counted. Journal failures are logged and never fail the prediction.
func (s *Service) WithJournal(j Journal, buffer int, timeout time.Duration) *Service {
	if buffer <= 0 {
		buffer = defaultJournalBuffer
	}

	if timeout <= 0 {
		timeout = defaultJournalTimeout
	}

	s.journal = j
	s.records = make(chan entity.PredictionRecord, buffer)
	s.journalTimeout = timeout

	return s
}

func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	s.memo = cache.New(ttl, 2*ttl)
	return s
}

func (s *Service) Ready() bool {
	return s.model != nil
}

func (s *Service) ModelVersion() string {
	return s.modelVersion
}

func (s *Service) Predict(ctx context.Context, m entity.Measurement) (entity.Prediction, error) {
	p, err := s.predict(ctx, m)
	if err != nil {
		return entity.Prediction{}, err
	}

	s.record(ctx, m, p)

	return p, nil
}

// PredictBatch predicts every measurement in order. The first failure aborts
// the batch and names the offending index.
func (s *Service) PredictBatch(ctx context.Context, ms []entity.Measurement) ([]entity.Prediction, error) {
	result := make([]entity.Prediction, 0, len(ms))

	for i, m := range ms {
		p, err := s.predict(ctx, m)
		if err != nil {
			return nil, &domain.ItemError{Index: i, Err: err}
		}

		result = append(result, p)
	}

	for i, p := range result {
		s.record(ctx, ms[i], p)
	}

	logger(ctx).Debug("batch served", slog.Int(logx.FieldBatchSize, len(ms)))

	return result, nil
}

func (s *Service) predict(ctx context.Context, m entity.Measurement) (entity.Prediction, error) {
	if s.model == nil {
		return entity.Prediction{}, domain.NewError(errcodes.ModelNotLoaded, "model is not loaded")
	}

	if err := m.Validate(); err != nil {
		return entity.Prediction{}, domain.WrapError(err, errcodes.InvalidMeasurement, "invalid measurement")
	}

	key := cacheKey(m)

	if cached, ok := s.memo.Get(key); ok {
		s.metrics.CacheHit()

		p := cached.(entity.Prediction) //nolint:forcetypeassert
		s.metrics.ObservePrediction(p.Species.String(), p.Confidence)

		return p, nil
	}

	start := time.Now()

	class, proba, err := s.model.Predict(m.Vector())
	if err != nil {
		return entity.Prediction{}, fmt.Errorf("model.Predict: %w", err)
	}

	elapsed := time.Since(start)

	species := value.Species(class)
	if !species.Valid() || len(proba) != value.SpeciesCount {
		return entity.Prediction{}, domain.NewError(errcodes.InvalidModel,
			fmt.Sprintf("model returned class %d with %d probabilities", class, len(proba)))
	}

	p := entity.Prediction{
		Species:    species,
		Confidence: proba[class],
	}
	copy(p.Probabilities[:], proba)

	s.memo.SetDefault(key, p)
	s.metrics.ObservePrediction(species.String(), p.Confidence)
	s.metrics.ObserveInference(elapsed)

	logger(ctx).Debug("prediction served",
		slog.String(logx.FieldSpecies, species.String()),
		slog.Float64(logx.FieldConfidence, p.Confidence),
	)

	return p, nil
}

// record queues the prediction for RunJournal without waiting on it.
func (s *Service) record(ctx context.Context, m entity.Measurement, p entity.Prediction) {
	if s.journal == nil {
		return
	}

	traceID, _ := contextx.TraceIDFromContext(ctx)

	record := entity.PredictionRecord{
		ID:           xid.New().String(),
		TraceID:      traceID.String(),
		ModelVersion: s.modelVersion,
		Measurement:  m,
		Prediction:   p,
		CreatedAt:    time.Now().UTC(),
	}

	select {
	case s.records <- record:
	default:
		s.metrics.JournalDropped()
		logger(ctx).Warn("journal buffer full, prediction dropped", slog.String(logx.FieldRecordID, record.ID))
	}
}

// RunJournal delivers queued records until ctx is done, then spends at most
// one journal timeout flushing what is left. Every delivery runs under its
// own timeout, detached from ctx.
func (s *Service) RunJournal(ctx context.Context) error {
	if s.journal == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			s.flushJournal(ctx)

			return nil
		case record := <-s.records:
			s.deliver(ctx, record)
		}
	}
}

func (s *Service) flushJournal(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.journalTimeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			if left := len(s.records); left > 0 {
				logger(ctx).Warn("journal flush timed out", slog.Int("dropped", left))
			}

			return
		case record := <-s.records:
			s.deliver(ctx, record)
		default:
			return
		}
	}
}

func (s *Service) deliver(ctx context.Context, record entity.PredictionRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.journalTimeout)
	defer cancel()

	if err := s.journal.Record(ctx, record); err != nil {
		s.metrics.JournalError()
		logger(ctx).Warn("journal.Record", slog.String(logx.FieldRecordID, record.ID), logx.Error(err))
	}
}

func cacheKey(m entity.Measurement) string {
	parts := make([]string, 0, value.FeatureCount)

	for _, v := range m.Vector() {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}

	return strings.Join(parts, "|")
}
