package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// PositionSource feeds the /status command. Kept local so the notifier
// does not depend on the broker package.
type PositionSource interface {
	OpenPositions(ctx context.Context) ([]models.Holding, error)
	Balance(ctx context.Context) (models.AccountBalance, error)
}

// Telegram is a passive notifier plus the /status command.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	src    PositionSource
}

func NewTelegram(token string, chatID int64, src PositionSource) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		src:    src,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /status shows account cash, equity and the open holdings.
func (t *Telegram) handleStatus(ctx context.Context) {
	if t.src == nil {
		t.Send("❗️ broker client is not initialized")
		return
	}
	bal, err := t.src.Balance(ctx)
	if err != nil {
		t.Sendf("❗️ balance error: %v", err)
		return
	}
	positions, err := t.src.OpenPositions(ctx)
	if err != nil {
		t.Sendf("❗️ positions error: %v", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 cash=%.0f equity=%.0f\n", bal.Cash, bal.TotalEquity)
	if len(positions) == 0 {
		b.WriteString("📭 no open positions")
	} else {
		b.WriteString("📊 open positions:\n")
		for _, p := range positions {
			fmt.Fprintf(&b, "- %s (%s) qty=%d avg=%.0f pnl=%.2f%%\n",
				p.Name, p.Code, p.Quantity, p.AvgPrice, p.UnrealizedPct)
		}
	}
	t.Send(b.String())
}

// Start: long-polling for command messages.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID && upd.Message.IsCommand() {

					switch upd.Message.Command() {
					case "status":
						go t.handleStatus(ctx)
					}
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {}

// Stdout logs everything; used when no Telegram token is configured.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
