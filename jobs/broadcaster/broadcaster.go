package broadcaster

import (
	"context"
	"log"
	"time"

	exitwal "rcuengine/infra/wal/exit"

	"github.com/IBM/sarama"
)

// Broadcaster drains the exit WAL's outbox and publishes each entry to
// Kafka, retrying on the next tick when delivery fails.
type Broadcaster struct {
	exitWAL  *exitwal.ExitWAL
	producer sarama.SyncProducer
	topic    string
}

func New(exitWAL *exitwal.ExitWAL, brokers []string, topic string) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		exitWAL:  exitWAL,
		producer: producer,
		topic:    topic,
	}, nil
}

// Run drains the outbox on a fixed interval until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context, interval time.Duration) {
	log.Println("[broadcaster] started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.drainOnce()
		}
	}
}

func (b *Broadcaster) drainOnce() {
	_ = b.exitWAL.ScanByState(exitwal.StateNew, func(orderID uint64, rec exitwal.ExitRecord) error {
		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			return nil // retry on the next tick
		}

		if err := b.exitWAL.MarkSent(orderID); err != nil {
			return nil
		}
		_ = b.exitWAL.MarkAcked(orderID)
		return nil
	})
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
