// Package bot answers slot searches over Telegram and delivers watch
// notifications.
package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	database "github.com/cowin-slot-checker/src/database"
	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/render"
	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/slots"
)

const (
	centersPerMessage = 5
	linesPerMessage   = 60
	requestTimeout    = 30 * time.Second
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Searcher interface {
	Search(ctx context.Context, q search.Query) (slots.Result, error)
}

type Locations interface {
	GetStates(ctx context.Context) ([]model.State, error)
	GetDistricts(ctx context.Context, stateID int) ([]model.District, error)
}

type Places interface {
	PlaceName(ctx context.Context, postalCode string) string
}

type Store interface {
	AddSubscription(s *database.Subscription) error
	SubscriptionsOf(chatID int64) ([]database.Subscription, error)
	RemoveSubscriptions(chatID int64) (int64, error)
}

// Snapshots drops the published result of a removed watch.
type Snapshots interface {
	Delete(watchID uint) error
}

type Bot struct {
	Sender    Sender
	Searcher  Searcher
	Locations Locations
	Places    Places
	Store     Store
	Snapshots Snapshots
	Tracker   *search.Tracker
	Now       func() time.Time
}

func (b *Bot) today() slots.Date {
	if b.Now != nil {
		return slots.DateOf(b.Now())
	}
	return slots.Today()
}

// Run handles updates on a pool of workers until updates closes or ctx ends.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update, workers int) {
	wp := workerpool.New(workers)
	defer wp.StopWait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil { // ignore any non-Message Updates
				continue
			}
			message := update.Message
			wp.Submit(func() {
				b.Handle(ctx, message)
			})
		}
	}
}

// Handle answers one message.
func (b *Bot) Handle(ctx context.Context, message *tgbotapi.Message) {
	log.WithField("chat", message.Chat.ID).Infof("[%s]: %s", message.From, message.Text)

	args := strings.Fields(message.CommandArguments())
	switch message.Command() {
	case "pin", "district":
		b.search(ctx, message, message.Command(), args)
	case "states":
		b.listStates(ctx, message)
	case "districts":
		b.listDistricts(ctx, message, args)
	case "watch":
		b.watch(ctx, message, args)
	case "watches":
		b.listWatches(message)
	case "unwatch":
		b.unwatch(message)
	default:
		b.reply(message, helpText)
	}
}

func (b *Bot) search(ctx context.Context, message *tgbotapi.Message, kind string, args []string) {
	q, err := parseQuery(kind, args, b.today())
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}

	key := "chat:" + strconv.FormatInt(message.Chat.ID, 10)
	searchCtx, gen, done := b.Tracker.Begin(ctx, key)
	defer done()
	searchCtx, cancel := context.WithTimeout(searchCtx, requestTimeout)
	defer cancel()

	result, err := b.Searcher.Search(searchCtx, q)
	if !b.Tracker.Current(key, gen) {
		log.WithField("chat", message.Chat.ID).Debugln("Dropping superseded search for", q.Key())
		return
	}
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}

	for _, text := range render.Messages(result, centersPerMessage) {
		b.reply(message, text)
	}
}

func (b *Bot) listStates(ctx context.Context, message *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	states, err := b.Locations.GetStates(ctx)
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}
	lines := make([]string, 0, len(states))
	for _, s := range states {
		lines = append(lines, fmt.Sprintf("%d  %s", s.StateID, s.StateName))
	}
	b.replyLines(message, lines)
}

func (b *Bot) listDistricts(ctx context.Context, message *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		b.reply(message, "Usage: /districts <state id>")
		return
	}
	stateID, err := strconv.Atoi(args[0])
	if err != nil || stateID <= 0 {
		b.reply(message, "Please select state")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	districts, err := b.Locations.GetDistricts(ctx, stateID)
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}
	if len(districts) == 0 {
		b.reply(message, "No districts found for state "+args[0])
		return
	}
	sort.Slice(districts, func(i, j int) bool { return districts[i].DistrictName < districts[j].DistrictName })
	lines := make([]string, 0, len(districts))
	for _, d := range districts {
		lines = append(lines, fmt.Sprintf("%d  %s", d.DistrictID, d.DistrictName))
	}
	b.replyLines(message, lines)
}

func (b *Bot) watch(ctx context.Context, message *tgbotapi.Message, args []string) {
	q, err := parseWatch(args, b.today())
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}

	sub := &database.Subscription{
		ChatID:     message.Chat.ID,
		DistrictID: q.DistrictID,
		Pincode:    q.Pincode,
		MinAge:     q.MinAge,
		Dose:       int(q.Dose),
	}
	if q.Pincode != "" && b.Places != nil {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		sub.Label = b.Places.PlaceName(ctx, q.Pincode)
		cancel()
		if sub.Label == q.Pincode {
			sub.Label = ""
		}
	}

	if err := b.Store.AddSubscription(sub); err != nil {
		log.WithError(err).Errorln("Saving watch failed")
		b.reply(message, search.UserMessage(err))
		return
	}
	b.reply(message, "Watching "+sub.String()+". You will get a message when slots open.")
}

func (b *Bot) listWatches(message *tgbotapi.Message) {
	subs, err := b.Store.SubscriptionsOf(message.Chat.ID)
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}
	if len(subs) == 0 {
		b.reply(message, "You have no watches.")
		return
	}
	lines := make([]string, 0, len(subs))
	for _, s := range subs {
		lines = append(lines, s.String())
	}
	b.replyLines(message, lines)
}

func (b *Bot) unwatch(message *tgbotapi.Message) {
	subs, err := b.Store.SubscriptionsOf(message.Chat.ID)
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}
	removed, err := b.Store.RemoveSubscriptions(message.Chat.ID)
	if err != nil {
		b.reply(message, search.UserMessage(err))
		return
	}
	if b.Snapshots != nil {
		for _, sub := range subs {
			if err := b.Snapshots.Delete(sub.ID); err != nil {
				log.WithError(err).WithField("watch", sub.ID).Warnln("Dropping snapshot failed")
			}
		}
	}
	b.reply(message, fmt.Sprintf("Removed %d watches.", removed))
}

func (b *Bot) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.Sender.Send(msg); err != nil {
		log.WithError(err).WithField("chat", message.Chat.ID).Warnln("Sending reply failed")
	}
}

func (b *Bot) replyLines(message *tgbotapi.Message, lines []string) {
	for len(lines) > 0 {
		n := linesPerMessage
		if len(lines) < n {
			n = len(lines)
		}
		b.reply(message, strings.Join(lines[:n], "\n"))
		lines = lines[n:]
	}
}

// Notifier delivers watch notifications as plain chat messages.
type Notifier struct {
	Sender Sender
}

func (n Notifier) Notify(chatID int64, messages []string) error {
	for _, text := range messages {
		if _, err := n.Sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			return fmt.Errorf("notifying chat %d: %w", chatID, err)
		}
	}
	return nil
}
