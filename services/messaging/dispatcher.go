// Package messaging moves messages between the gateway and the conversation
// engine: inbound dedupe and ordering, outbound delivery.
package messaging

import (
	"container/list"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"bookingbot/models"
)

// ErrInvalidEvent is returned for events without a conversation id.
var ErrInvalidEvent = errors.New("invalid inbound event")

const defaultSendTimeout = 5 * time.Second

// Processor turns one inbound message into replies.
type Processor interface {
	Process(ctx context.Context, ev models.InboundEvent) ([]string, error)
}

// DispatcherConfig wires a Dispatcher. Processor and Sender are required.
type DispatcherConfig struct {
	Processor Processor
	Sender    Sender
	// Deduper is optional; without it every message is processed.
	Deduper Deduper
	// DefaultChannel fills events that arrive without a channel id.
	DefaultChannel string
	SendTimeout    time.Duration
	Logger         *zap.Logger
}

// Dispatcher runs each conversation's messages in arrival order. Different
// conversations are processed in parallel, one goroutine per busy conversation.
type Dispatcher struct {
	processor      Processor
	sender         Sender
	deduper        Deduper
	defaultChannel string
	sendTimeout    time.Duration
	logger         *zap.Logger

	mu    sync.Mutex
	lanes map[string]*list.List
	wg    sync.WaitGroup
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		processor:      cfg.Processor,
		sender:         cfg.Sender,
		deduper:        cfg.Deduper,
		defaultChannel: cfg.DefaultChannel,
		sendTimeout:    cfg.SendTimeout,
		logger:         cfg.Logger,
		lanes:          make(map[string]*list.List),
	}
	if d.sendTimeout <= 0 {
		d.sendTimeout = defaultSendTimeout
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	d.logger = d.logger.With(zap.String("component", "messaging.dispatcher"))
	return d
}

// Dispatch queues ev for its conversation and reports whether it was
// accepted. Self messages, blank text and repeated message ids are dropped.
// Processing outlives ctx cancellation but keeps its values.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.InboundEvent) (bool, error) {
	if strings.TrimSpace(ev.ConversationID) == "" {
		return false, ErrInvalidEvent
	}
	if ev.FromSelf || strings.TrimSpace(ev.Text) == "" {
		return false, nil
	}
	if ev.MessageID != "" && d.deduper != nil {
		first, err := d.deduper.FirstSeen(ctx, ev.MessageID)
		if err != nil {
			d.logger.Warn("dedupe check failed, processing anyway",
				zap.String("messageId", ev.MessageID), zap.Error(err))
		} else if !first {
			d.logger.Debug("duplicate message dropped", zap.String("messageId", ev.MessageID))
			return false, nil
		}
	}
	if ev.ChannelID == "" {
		ev.ChannelID = d.defaultChannel
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}

	d.enqueue(context.WithoutCancel(ctx), ev)
	return true, nil
}

// Wait blocks until every queued message has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Busy returns the number of conversations with queued or running messages.
func (d *Dispatcher) Busy() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lanes)
}

func (d *Dispatcher) enqueue(ctx context.Context, ev models.InboundEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lane, ok := d.lanes[ev.ConversationID]
	if ok {
		lane.PushBack(ev)
		return
	}
	lane = list.New()
	lane.PushBack(ev)
	d.lanes[ev.ConversationID] = lane

	d.wg.Add(1)
	go d.drain(ctx, ev.ConversationID, lane)
}

// drain handles the lane's messages until it is empty, then retires the lane.
func (d *Dispatcher) drain(ctx context.Context, conversationID string, lane *list.List) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		front := lane.Front()
		if front == nil {
			delete(d.lanes, conversationID)
			d.mu.Unlock()
			return
		}
		ev := front.Value.(models.InboundEvent)
		d.mu.Unlock()

		d.handle(ctx, ev)

		d.mu.Lock()
		lane.Remove(front)
		d.mu.Unlock()
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev models.InboundEvent) {
	logger := d.logger.With(
		zap.String("conversationId", ev.ConversationID),
		zap.String("messageId", ev.MessageID),
	)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing message", zap.Any("panic", r))
		}
	}()

	replies, err := d.processor.Process(ctx, ev)
	switch {
	case errors.Is(err, models.ErrTenantNotFound):
		logger.Error("no active tenant for channel, message dropped",
			zap.String("channelId", ev.ChannelID), zap.Error(err))
		return
	case err != nil:
		logger.Warn("message not processed, open for redelivery", zap.Error(err))
		d.forget(ctx, ev.MessageID)
		return
	}
	for _, text := range replies {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := d.sender.SendText(sendCtx, ev.ConversationID, text)
		cancel()
		if err != nil {
			logger.Error("sending reply failed", zap.Error(err))
		}
	}
}

// forget lets a redelivery of messageID through after a transient failure.
func (d *Dispatcher) forget(ctx context.Context, messageID string) {
	if messageID == "" || d.deduper == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	if err := d.deduper.Forget(ctx, messageID); err != nil {
		d.logger.Warn("releasing message id failed", zap.String("messageId", messageID), zap.Error(err))
	}
}
