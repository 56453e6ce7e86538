// Package relay forwards pipeline bus messages to a message broker.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/skylineagle/gstd-go/internal/constants"
	"github.com/skylineagle/gstd-go/internal/log"
	"github.com/skylineagle/gstd-go/pkg/gstd"
)

// Publisher delivers an encoded message to subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the payload published for every bus message.
type Event struct {
	Pipeline string          `json:"pipeline"`
	Message  json.RawMessage `json:"message"`
}

// Relay reads a pipeline bus and publishes what it reads.
type Relay struct {
	Bus       gstd.BusClient
	Publisher Publisher
	Pipeline  string
	// Filter: bus message types to forward. Defaults to "all".
	Filter string
	// Subject: destination subject. Defaults to "gstd.bus.<pipeline>".
	Subject string
	// Timeout: daemon-side wait per read. Defaults to one second.
	Timeout time.Duration
	Logger  zerolog.Logger

	published atomic.Int64
}

// Published returns the number of messages published so far.
func (r *Relay) Published() int64 {
	return r.published.Load()
}

// Run relays messages until ctx ends, returning nil in that case. Client and
// publisher errors stop the relay and are returned as is.
func (r *Relay) Run(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}

	filter := r.filter()
	subject := r.subject()
	timeout := r.timeout()
	logger := log.WithComponent(r.Logger, "relay").With().
		Str(log.FieldPipeline, r.Pipeline).
		Str(log.FieldSubject, subject).
		Logger()

	logger.Info().Str("filter", filter).Msg("relay started")

	for {
		if ctx.Err() != nil {
			logger.Info().Int64("published", r.Published()).Msg("relay stopped")

			return nil
		}

		message, err := r.Bus.WaitForMessage(ctx, r.Pipeline, filter, timeout)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info().Int64("published", r.Published()).Msg("relay stopped")

				return nil
			}

			return fmt.Errorf("reading bus of pipeline %q: %w", r.Pipeline, err)
		}

		if message == nil {
			continue
		}

		data, err := encode(r.Pipeline, message)
		if err != nil {
			return err
		}

		if err := r.Publisher.Publish(subject, data); err != nil {
			return fmt.Errorf("publishing to %s: %w", subject, err)
		}

		r.published.Add(1)
		logger.Debug().Str("type", message.Type).Int64("seqnum", message.Seqnum).Msg("relayed bus message")
	}
}

func (r *Relay) validate() error {
	var errs []error

	if r.Bus == nil {
		errs = append(errs, constants.ErrNoBus)
	}

	if r.Publisher == nil {
		errs = append(errs, constants.ErrNoPublisher)
	}

	if r.Pipeline == "" {
		errs = append(errs, constants.ErrNoPipeline)
	}

	return errors.Join(errs...)
}

func (r *Relay) filter() string {
	if r.Filter == "" {
		return constants.DefaultRelayFilter
	}

	return r.Filter
}

func (r *Relay) subject() string {
	if r.Subject == "" {
		return constants.DefaultRelaySubjectPrefix + "." + r.Pipeline
	}

	return r.Subject
}

func (r *Relay) timeout() time.Duration {
	if r.Timeout == 0 {
		return constants.DefaultRelayTimeout
	}

	return r.Timeout
}

func encode(pipeline string, message *gstd.BusMessage) ([]byte, error) {
	raw := message.Raw
	if len(raw) == 0 {
		encoded, err := json.Marshal(message)
		if err != nil {
			return nil, fmt.Errorf("encoding bus message: %w", err)
		}

		raw = encoded
	}

	data, err := json.Marshal(Event{Pipeline: pipeline, Message: raw})
	if err != nil {
		return nil, fmt.Errorf("encoding bus message: %w", err)
	}

	return data, nil
}
