// Package kafka publishes assembled records to a Kafka topic, as an
// optional sink alongside the JSON files.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/metar-translator/internal/config"
	"github.com/couchcryptid/metar-translator/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces document records to the sink topic.
// It implements pipeline.RecordPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishDocument serializes every record of a document and publishes them
// in one WriteMessages call. A failure fails the whole document's publish;
// the JSON file on disk is unaffected.
func (w *Writer) PublishDocument(ctx context.Context, doc domain.Document) error {
	if len(doc.Records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(doc.Records))
	for i := range doc.Records {
		msg, err := serializeToMessage(doc, doc.Records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one record into a Kafka message. The key is
// station plus raw observation timestamp, so records of one station land on
// one partition in observation order.
func serializeToMessage(doc domain.Document, rec domain.Record) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(RecordKey(rec)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source_csv", Value: []byte(doc.SourceCSV)},
			{Key: "generated_at", Value: []byte(doc.GeneratedAt)},
		},
	}, nil
}

// RecordKey derives the partition key for a record: "station|valid_raw",
// with missing halves left empty.
func RecordKey(rec domain.Record) string {
	station, _ := rec["station"].(string)
	validRaw, _ := rec["valid_raw"].(string)
	return station + "|" + validRaw
}
