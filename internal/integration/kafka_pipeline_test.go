//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/metar-translator/internal/adapter/csvdir"
	"github.com/couchcryptid/metar-translator/internal/adapter/jsonfile"
	"github.com/couchcryptid/metar-translator/internal/adapter/kafka"
	"github.com/couchcryptid/metar-translator/internal/config"
	"github.com/couchcryptid/metar-translator/internal/domain"
	"github.com/couchcryptid/metar-translator/internal/observability"
	"github.com/couchcryptid/metar-translator/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSinkTopic = "test-metar-records"

const fixtureCSV = `station,valid,tmpf,dwpf,sknt,p01i,wxcodes,skyc1,skyl1,metar
KAMW,2024-04-27 05:53,61.0,57.9,10.0,T,-RA BR,OVC,1000,KAMW 270553Z 21010G18KT 10SM -RA BR OVC010 16/14 A2992 RMK AO2
KDSM,2024-04-27 05:54,63.0,M,12.0,0.02,,SCT,2500,KDSM 270554Z 20012KT 1 1/2SM SCT025 17/15 A2990 RMK AO2
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address. The container is torn down with the test.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("metar-translator-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic pre-creates a topic so the consumer does not race topic
// auto-creation.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// sinkMessage holds a deserialized record read from the sink topic.
type sinkMessage struct {
	Record  map[string]any
	Key     string
	Headers map[string]string
}

// readRecord reads a single message from the sink consumer and deserializes it.
func readRecord(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var rec map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal sink message")

	return sinkMessage{
		Record:  rec,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestPipelinePublishesRecords runs the batch pipeline against a real Kafka
// broker and verifies that every translated record lands on the sink topic
// with the expected key, headers, and payload, while the JSON file is still
// written beside the source CSV.
func TestPipelinePublishesRecords(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	root := t.TempDir()
	csvPath := filepath.Join(root, "asos_2024.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(fixtureCSV), 0o644))

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	publisher := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(csvdir.Source{}, jsonfile.NewWriter(2), publisher,
		discardLogger(), metrics, "*.csv", 2)

	summary, err := p.Run(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 0, summary.FilesFailed)
	assert.Equal(t, 2, summary.RowsProcessed)

	// The JSON file must exist regardless of the Kafka sink.
	data, err := os.ReadFile(jsonfile.OutputPath(csvPath))
	require.NoError(t, err, "read sibling JSON")
	var doc domain.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.NRows)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]sinkMessage, 2)
	for len(received) < 2 {
		sm := readRecord(ctx, t, consumer)
		station, _ := sm.Record["station"].(string)
		received[station] = sm
	}

	for station, sm := range received {
		assert.Equal(t, csvPath, sm.Headers["source_csv"], "source_csv header for %s", station)
		require.Contains(t, sm.Headers, "generated_at")
		_, err := time.Parse(time.RFC3339Nano, sm.Headers["generated_at"])
		assert.NoError(t, err, "generated_at should be RFC3339")
		assert.Equal(t, doc.GeneratedAt, sm.Headers["generated_at"])
	}

	ames, ok := received["KAMW"]
	require.True(t, ok, "expected KAMW record on sink topic")
	assert.Equal(t, "KAMW|2024-04-27 05:53", ames.Key)
	assert.Equal(t, 61.0, ames.Record["tmpf_F_v"])
	assert.Equal(t, false, ames.Record["tmpf_F_is_trace"])
	assert.Equal(t, 0.0, ames.Record["precip_1hr_in_v"], "trace precip reads as zero")
	assert.Equal(t, true, ames.Record["precip_1hr_in_is_trace"])

	parsed, ok := ames.Record["metar_parsed"].(map[string]any)
	require.True(t, ok, "metar_parsed should be an object")
	assert.Equal(t, "210", parsed["wind_dir"])
	assert.Equal(t, 10.0, parsed["wind_spd_kt"])
	assert.Equal(t, 18.0, parsed["wind_gust_kt"])
	assert.Equal(t, "2992", parsed["altimeter_A"])

	desMoines, ok := received["KDSM"]
	require.True(t, ok, "expected KDSM record on sink topic")
	assert.Equal(t, "KDSM|2024-04-27 05:54", desMoines.Key)
	assert.Nil(t, desMoines.Record["dwpf_F_v"], "missing dew point stays null")
}

// TestPipelineBadFileDoesNotBlockPublish verifies that an unreadable CSV
// fails only its own file while the sibling file is still translated and
// published.
func TestPipelineBadFileDoesNotBlockPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	root := t.TempDir()
	goodPath := filepath.Join(root, "good.csv")
	require.NoError(t, os.WriteFile(goodPath, []byte(fixtureCSV), 0o644))
	badPath := filepath.Join(root, "bad.csv")
	require.NoError(t, os.WriteFile(badPath, []byte("\"unterminated\n"), 0o644))

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	publisher := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(csvdir.Source{}, jsonfile.NewWriter(0), publisher,
		discardLogger(), metrics, "*.csv", 2)

	summary, err := p.Run(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesFailed)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	stations := map[string]bool{}
	for len(stations) < 2 {
		sm := readRecord(ctx, t, consumer)
		station, _ := sm.Record["station"].(string)
		stations[station] = true
	}
	assert.True(t, stations["KAMW"])
	assert.True(t, stations["KDSM"])
}
