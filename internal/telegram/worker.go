package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/spf13/viper"

	"github.com/statforge/statforge/internal/dice"
	"github.com/statforge/statforge/internal/logging"
	"github.com/statforge/statforge/internal/parser"
	"github.com/statforge/statforge/internal/session"
)

// summaryPageSize caps how many stat lines go into one summary message.
const summaryPageSize = 25

// Bot bridges Telegram to the roll sessions. Each user-initiated roll runs
// in its own goroutine; button taps are routed to the session waiting on
// the tapped message.
type Bot struct {
	client       *Client
	runner       *session.Runner
	grammar      *participle.Parser[parser.Command]
	lastUpdateID int

	mu      sync.Mutex
	pending map[int]*pendingPrompt // keyed by prompt message id
}

// pendingPrompt is one suspended await-choice point of a live session.
type pendingPrompt struct {
	identity string
	ch       chan string
}

// NewBot initializes a bot for the given token and game runner.
func NewBot(token string, runner *session.Runner) *Bot {
	return &Bot{
		client:       NewClient(token),
		runner:       runner,
		grammar:      parser.Build(),
		lastUpdateID: viper.GetInt("tg_last_update_id"),
		pending:      make(map[int]*pendingPrompt),
	}
}

// Start launches the long-polling loop. It blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	logging.Info("telegram bot started")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := b.client.GetUpdates(b.lastUpdateID+1, 25)
		if err != nil {
			logging.Error("error fetching updates", "error", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID > b.lastUpdateID {
				b.lastUpdateID = update.UpdateID
				viper.Set("tg_last_update_id", b.lastUpdateID)
				_ = viper.WriteConfig() // Ignore error if config file doesn't exist yet
			}

			if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			} else if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

// register parks a choice channel for a prompt message. Only taps by the
// session's own identity are delivered.
func (b *Bot) register(messageID int, identity string) chan string {
	ch := make(chan string, 1)
	b.mu.Lock()
	b.pending[messageID] = &pendingPrompt{identity: identity, ch: ch}
	b.mu.Unlock()
	return ch
}

func (b *Bot) unregister(messageID int) {
	b.mu.Lock()
	delete(b.pending, messageID)
	b.mu.Unlock()
}

// handleCallback routes a button tap to the session awaiting it. Taps on
// stale prompts or by other users are acknowledged and dropped.
func (b *Bot) handleCallback(cb *CallbackQuery) {
	_ = b.client.AnswerCallbackQuery(cb.ID)

	if cb.Message == nil {
		return
	}

	b.mu.Lock()
	p, ok := b.pending[cb.Message.MessageID]
	b.mu.Unlock()

	if !ok || p.identity != identityOf(cb.From) {
		return
	}

	select {
	case p.ch <- cb.Data:
	default:
	}
}

// identityOf maps a Telegram user to the identity key of player records.
func identityOf(u User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") && !strings.HasPrefix(text, "!") {
		return
	}
	text = strings.TrimLeft(text, "/!")
	// Group chats suffix commands with the bot name: /roll@statforge_bot
	if idx := strings.IndexByte(text, '@'); idx >= 0 {
		fields := strings.Fields(text)
		fields[0] = strings.SplitN(fields[0], "@", 2)[0]
		text = strings.Join(fields, " ")
	}

	cmd, err := b.grammar.ParseString("", text)
	if err != nil {
		_ = b.client.SendMessage(msg.Chat.ID, parser.MapError(text, err).Error())
		return
	}

	identity := identityOf(msg.From)

	switch {
	case cmd.Ping != nil:
		_ = b.client.SendMessage(msg.Chat.ID, "pong!")
	case cmd.Help != nil:
		_ = b.client.SendMessage(msg.Chat.ID, helpText())
	case cmd.Dice != nil:
		b.handleDice(msg.Chat.ID, identity, cmd.Dice.Faces)
	case cmd.Summary != nil:
		b.handleSummary(msg.Chat.ID, identity)
	case cmd.Roll != nil:
		go b.runRollSession(ctx, msg.Chat.ID, identity)
	}
}

func helpText() string {
	return strings.Join([]string{
		"*Available commands*",
		"/roll: walk the stat tree and roll a check against the chosen stat",
		"/dice <faces>: roll a single die",
		"/summary: show your mastery for every stat",
		"/ping: check the bot is alive",
	}, "\n")
}

// runRollSession drives one interactive roll for a user. Sessions of
// different users run concurrently; the player store is the only shared
// state.
func (b *Bot) runRollSession(ctx context.Context, chatID int64, identity string) {
	prompter := &chatPrompter{bot: b, chatID: chatID, identity: identity}

	outcome, err := b.runner.BeginRoll(ctx, identity, prompter)
	if err != nil {
		logging.Error("roll session failed", "identity", identity, "error", err)
		prompter.finish(fmt.Sprintf("Something went wrong: %v", err))
		return
	}
	prompter.finish(outcome.Summary())
}

func (b *Bot) handleDice(chatID int64, identity string, faces int) {
	roll, err := dice.RollDie(faces)
	if err != nil {
		_ = b.client.SendMessage(chatID, err.Error())
		return
	}

	name := identity
	if p, err := b.runner.Game().Players.Lookup(identity); err == nil && p != nil {
		name = p.Name
	}
	logging.Info("rolled die", "faces", faces, "roll", roll, "identity", identity)
	_ = b.client.SendMessage(chatID, fmt.Sprintf("*%s*\nd%d: *%d*", name, faces, roll))
}

// handleSummary sends the caller's full mastery table, split into pages
// when the stat list is long.
func (b *Bot) handleSummary(chatID int64, identity string) {
	p, err := b.runner.Game().Players.Lookup(identity)
	if err != nil {
		_ = b.client.SendMessage(chatID, fmt.Sprintf("Could not load your record: %v", err))
		return
	}
	if p == nil {
		_ = b.client.SendMessage(chatID, fmt.Sprintf("No player stats found for player %s.", identity))
		return
	}

	stats := make([]string, 0, len(p.Stats))
	for stat := range p.Stats {
		stats = append(stats, stat)
	}
	sort.Strings(stats)

	var lines []string
	for _, stat := range stats {
		m, err := b.runner.MasteryFor(p, stat)
		if err != nil {
			_ = b.client.SendMessage(chatID, fmt.Sprintf("Could not compute mastery: %v", err))
			return
		}
		lines = append(lines, fmt.Sprintf("%s: *%d* (%d xp)", stat, m, p.Experience(stat)))
	}

	pages := (len(lines) + summaryPageSize - 1) / summaryPageSize
	for i := 0; i < len(lines); i += summaryPageSize {
		end := i + summaryPageSize
		if end > len(lines) {
			end = len(lines)
		}
		header := fmt.Sprintf("*%s*", p.Name)
		if pages > 1 {
			header += fmt.Sprintf("\nPage %d/%d", i/summaryPageSize+1, pages)
		}
		_ = b.client.SendMessage(chatID, header+"\n"+strings.Join(lines[i:end], "\n"))
	}
}
