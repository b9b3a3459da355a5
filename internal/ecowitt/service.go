package ecowitt

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrnez/weewx-ecowitt-API/internal/record"
)

// Service runs the fetch-validate-flatten-convert-map pipeline once per
// invocation. It holds no mutable state between invocations; the host
// drives it synchronously, one call per archive interval.
type Service struct {
	client           *Client
	labels           []LabelPair
	ignoreValueError bool
	logger           *logrus.Logger
}

// NewService wires the pipeline. labels is the ordered label map; the
// slice is not copied, the caller must not mutate it afterwards.
func NewService(client *Client, labels []LabelPair, ignoreValueError bool, logger *logrus.Logger) *Service {
	return &Service{
		client:           client,
		labels:           labels,
		ignoreValueError: ignoreValueError,
		logger:           logger,
	}
}

// Augment fetches one real-time snapshot and merges the mapped fields into
// sink. Fetch, decode, and envelope failures abandon the interval: one
// warn line with the skip reason, sink untouched, nil returned, so the
// host pipeline never sees them. The only error surfaced is an unsuppressed
// *ValueConversionError; fields written before the failing pair stand.
func (s *Service) Augment(ctx context.Context, sink record.Sink) error {
	interval := uuid.NewString()
	log := s.logger.WithField("interval", interval)

	envelope, err := s.client.RealTime(ctx)
	if err != nil {
		log.WithField("reason", skipReasonFor(err)).Warnf("interval skipped: %v", err)
		return nil
	}

	if err := envelope.Validate(); err != nil {
		log.WithField("reason", "invalid-payload").Warnf("interval skipped: %v", err)
		return nil
	}

	flat := Flatten(*envelope.Data)
	flat = ConvertUnits(flat, sink.UnitSystem())

	outcome, err := MergeRecord(flat, s.labels, sink, s.ignoreValueError)
	if err != nil {
		log.WithFields(logrus.Fields{
			"processed": outcome.Processed,
			"skipped":   outcome.Skipped,
		}).Errorf("merge stopped: %v", err)
		return err
	}

	log.WithFields(logrus.Fields{
		"processed": outcome.Processed,
		"skipped":   outcome.Skipped,
		"updated":   outcome.Updated,
	}).Info("record updated")
	return nil
}

func skipReasonFor(err error) string {
	var netErr *NetworkError
	var decErr *DecodeError
	switch {
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &decErr):
		return "decode"
	default:
		return "unknown"
	}
}
