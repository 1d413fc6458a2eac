package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dompet/internal/model"
	"dompet/internal/view"
	"dompet/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// Live streams the unified entry collection as Server-Sent Events. Every
// update is the full filtered collection, newest first. The three
// underlying feeds are released when the client goes away or the server
// context ends.
func (h *LedgerHandler) Live(c *fiber.Ctx) error {
	f, _, err := h.filterFrom(c)
	if err != nil {
		return fail(c, "LedgerHandler.Live", c.Queries(), err)
	}
	uid := userID(c)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(h.opt.Context)
		defer cancel()

		sub := h.aggregator.Subscribe(ctx, uid)
		defer sub.Close()

		err := streamEntries(w, sub.Updates(), h.opt.KeepAlive, func(entries []model.Entry) []model.Entry {
			f.Now = h.now()
			return view.Apply(entries, f)
		})
		if err == nil {
			err = sub.Err()
			if err != nil {
				_ = writeEvent(w, "error", map[string]string{"error": err.Error()})
			}
		}
		if err != nil {
			logger.WithUser(sub.UserID()).Debugf("live stream ended: %v", err)
		}
	}))
	return nil
}

// streamEntries writes one "entries" event per update until updates closes
// or a write fails (client gone). Idle periods are filled with comments.
func streamEntries(w *bufio.Writer, updates <-chan []model.Entry, keepAlive time.Duration, shape func([]model.Entry) []model.Entry) error {
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case entries, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeEvent(w, "entries", shape(entries)); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w *bufio.Writer, event string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	return w.Flush()
}
