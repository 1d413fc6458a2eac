package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dompet/internal/model"
	"dompet/internal/store"
	"dompet/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Stream       string        // default: store.StreamLedger
	Group        string        // default: "ledger_journal"
	Block        time.Duration // default: 5s
	Batch        int64         // default: 100
	MinIdle      time.Duration // default: 30s
	TrimAfterAck bool          // optional: XDEL after ack
}

// Journal stores ledger change events. Appending the same stream id twice
// must be a no-op.
type Journal interface {
	AppendEvent(ctx context.Context, ev model.LedgerEvent) error
}

// JournalWorker copies the global ledger change stream into the audit
// database through a consumer group, so every event is journaled once even
// with several instances running.
type JournalWorker struct {
	rdb     redis.UniversalClient
	journal Journal
	opt     Options
}

func NewJournalWorker(rdb redis.UniversalClient, journal Journal, opt *Options) *JournalWorker {
	o := Options{
		Stream:  store.StreamLedger,
		Group:   "ledger_journal",
		Block:   5 * time.Second,
		Batch:   100,
		MinIdle: 30 * time.Second,
	}
	if opt != nil {
		if opt.Stream != "" {
			o.Stream = opt.Stream
		}
		if opt.Group != "" {
			o.Group = opt.Group
		}
		if opt.Block != 0 {
			o.Block = opt.Block
		}
		if opt.Batch != 0 {
			o.Batch = opt.Batch
		}
		if opt.MinIdle != 0 {
			o.MinIdle = opt.MinIdle
		}
		o.TrimAfterAck = opt.TrimAfterAck
	}
	return &JournalWorker{rdb: rdb, journal: journal, opt: o}
}

func (w *JournalWorker) ensureGroup(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, w.opt.Stream, w.opt.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		logger.Errorf("❌ XGroupCreateMkStream error: %v", err)
	} else if err == nil {
		logger.Infof("✅ Created group %q on %s", w.opt.Group, w.opt.Stream)
	}
}

func (w *JournalWorker) reclaimPending(ctx context.Context, consumer string) {
	start := "0-0"
	for {
		msgs, next, err := w.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   w.opt.Stream,
			Group:    w.opt.Group,
			Consumer: consumer,
			MinIdle:  w.opt.MinIdle,
			Start:    start,
			Count:    w.opt.Batch,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				logger.Errorf("❌ XAutoClaim error: %v", err)
			}
			return
		}
		for _, m := range msgs {
			w.handleMessage(ctx, consumer, m)
		}
		if next == "0-0" || len(msgs) == 0 {
			return
		}
		start = next
	}
}

// parseEvent reads one stream message. The occurrence time is the
// millisecond part of the stream id, assigned by Redis.
func parseEvent(m redis.XMessage) (model.LedgerEvent, error) {
	ev := model.LedgerEvent{StreamID: m.ID}
	ev.UserID, _ = getStr(m.Values, "user")
	ev.Collection, _ = getStr(m.Values, "collection")
	ev.Op, _ = getStr(m.Values, "op")
	ev.EntryID, _ = getStr(m.Values, "id")
	if ev.UserID == "" || ev.Collection == "" || ev.Op == "" {
		return ev, fmt.Errorf("incomplete ledger event %s", m.ID)
	}

	msPart, _, _ := strings.Cut(m.ID, "-")
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return ev, fmt.Errorf("invalid stream id %s: %w", m.ID, err)
	}
	ev.OccurredAt = time.UnixMilli(ms).UTC()
	return ev, nil
}

func (w *JournalWorker) ack(ctx context.Context, id string) {
	if err := w.rdb.XAck(ctx, w.opt.Stream, w.opt.Group, id).Err(); err != nil {
		logger.Errorf("❌ XAck error (msg=%s): %v", id, err)
	}
	if w.opt.TrimAfterAck {
		_ = w.rdb.XDel(ctx, w.opt.Stream, id).Err()
	}
}

func (w *JournalWorker) handleMessage(ctx context.Context, consumer string, m redis.XMessage) {
	ev, err := parseEvent(m)
	if err != nil {
		// pesan rusak tidak akan pernah berhasil, ack saja
		logger.Errorf("❌ worker skip message: %v", err)
		w.ack(ctx, m.ID)
		return
	}

	if err := w.journal.AppendEvent(ctx, ev); err != nil {
		errMsg := err.Error()
		logger.WriteLogToFile("failed", "JournalWorker.AppendEvent", ev, &errMsg)
		logger.Errorf("❌ AppendEvent error (msg=%s): %v", m.ID, err)
		return // no ack -> retry later
	}

	w.ack(ctx, m.ID)
	logger.Debugf("✅ Journaled %s %s/%s for consumer %s", m.ID, ev.Collection, ev.Op, consumer)
}

func getStr(m map[string]interface{}, key string) (string, bool) {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case string:
			return t, true
		case []byte:
			return string(t), true
		}
	}
	return "", false
}

func (w *JournalWorker) Run(ctx context.Context, consumerName string) {
	w.ensureGroup(ctx)
	w.reclaimPending(ctx, consumerName)

	backoff := 200 * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		res, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.opt.Group,
			Consumer: consumerName,
			Streams:  []string{w.opt.Stream, ">"},
			Count:    w.opt.Batch,
			Block:    w.opt.Block,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				logger.Errorf("❌ XReadGroup error: %v", err)
				time.Sleep(backoff)
				if backoff < 5*time.Second {
					backoff *= 2
				}
			}
			continue
		}
		backoff = 200 * time.Millisecond
		for _, strm := range res {
			for _, msg := range strm.Messages {
				w.handleMessage(ctx, consumerName, msg)
			}
		}
	}
}

func ConsumerName(instance string, i int) string {
	if instance == "" {
		instance = "app"
	}
	return fmt.Sprintf("%s-%d", instance, i)
}
