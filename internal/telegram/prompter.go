package telegram

import (
	"context"

	"github.com/statforge/statforge/internal/session"
)

// buttonsPerRow caps how many choices share one keyboard row.
const buttonsPerRow = 5

// chatPrompter implements session.Prompter over one Telegram chat. The
// first prompt creates a message; every later prompt edits it in place, so
// the whole drill-down lives in a single message instead of flooding the
// chat.
type chatPrompter struct {
	bot       *Bot
	chatID    int64
	identity  string
	messageID int
}

// keyboardFromChoices builds rows of at most five buttons plus a final
// abort row.
func keyboardFromChoices(choices []session.Choice) InlineKeyboardMarkup {
	var markup InlineKeyboardMarkup
	for start := 0; start < len(choices); start += buttonsPerRow {
		end := start + buttonsPerRow
		if end > len(choices) {
			end = len(choices)
		}
		var row []InlineKeyboardButton
		for _, c := range choices[start:end] {
			label := c.Label
			if !c.Leaf {
				label += " …"
			}
			row = append(row, InlineKeyboardButton{Text: label, CallbackData: c.ID})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, row)
	}
	markup.InlineKeyboard = append(markup.InlineKeyboard, []InlineKeyboardButton{
		{Text: "Abort", CallbackData: session.AbortID},
	})
	return markup
}

func (p *chatPrompter) show(text string, markup InlineKeyboardMarkup) error {
	if p.messageID == 0 {
		id, err := p.bot.client.SendMessageWithKeyboard(p.chatID, text, markup)
		if err != nil {
			return err
		}
		p.messageID = id
		return nil
	}
	return p.bot.client.EditMessageText(p.chatID, p.messageID, text, &markup)
}

// await blocks until the user taps a button on the prompt message or the
// context expires.
func (p *chatPrompter) await(ctx context.Context) (string, error) {
	ch := p.bot.register(p.messageID, p.identity)
	defer p.bot.unregister(p.messageID)

	select {
	case data := <-ch:
		return data, nil
	case <-ctx.Done():
		return "", session.ErrTimeout
	}
}

func (p *chatPrompter) PromptChoice(ctx context.Context, prompt string, choices []session.Choice) (string, error) {
	if err := p.show(prompt, keyboardFromChoices(choices)); err != nil {
		return "", err
	}
	return p.await(ctx)
}

func (p *chatPrompter) PromptYesNo(ctx context.Context, question string) (bool, error) {
	markup := InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{{
		{Text: "Yes", CallbackData: "yes"},
		{Text: "No", CallbackData: "no"},
	}}}
	if err := p.show(question, markup); err != nil {
		return false, err
	}

	answer, err := p.await(ctx)
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

// finish replaces the prompt message with the final text and drops the
// keyboard. When no prompt message was ever created the text is sent as a
// fresh message.
func (p *chatPrompter) finish(text string) {
	if p.messageID == 0 {
		_ = p.bot.client.SendMessage(p.chatID, text)
		return
	}
	_ = p.bot.client.EditMessageText(p.chatID, p.messageID, text, nil)
}
