package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Update represents a Telegram update.
type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message represents a Telegram message.
type Message struct {
	MessageID int    `json:"message_id"`
	From      User   `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// CallbackQuery is delivered when a user taps an inline keyboard button.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// User represents a Telegram user.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// InlineKeyboardButton is one tappable choice of a prompt.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// InlineKeyboardMarkup lays buttons out in rows.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// Client is a wrapper for the Telegram Bot API.
type Client struct {
	Token      string
	APIBase    string
	HTTPClient *http.Client
}

// NewClient creates a new Telegram client.
func NewClient(token string) *Client {
	return &Client{
		Token:      token,
		APIBase:    "https://api.telegram.org",
		HTTPClient: &http.Client{},
	}
}

// GetUpdates fetches new updates from Telegram via long polling.
func (c *Client) GetUpdates(offset int, timeout int) ([]Update, error) {
	u := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=%d", c.APIBase, c.Token, offset, timeout)

	resp, err := c.HTTPClient.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API returned status: %s", resp.Status)
	}

	var result struct {
		OK     bool     `json:"ok"`
		Result []Update `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if !result.OK {
		return nil, fmt.Errorf("telegram API reported error in response")
	}

	return result.Result, nil
}

// call posts a payload to a Bot API method and decodes the result into out
// when out is non-nil.
func (c *Client) call(method string, payload map[string]any, out any) error {
	apiURL := fmt.Sprintf("%s/bot%s/%s", c.APIBase, c.Token, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Post(apiURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status: %v", resp.Status)
	}

	if out == nil {
		return nil
	}

	var result struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("telegram API reported error in response")
	}
	return json.Unmarshal(result.Result, out)
}

// SendMessage sends a plain Markdown message to a chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	return c.call("sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}, nil)
}

// SendMessageWithKeyboard sends a message carrying an inline keyboard and
// returns the id of the created message so it can be edited later.
func (c *Client) SendMessageWithKeyboard(chatID int64, text string, markup InlineKeyboardMarkup) (int, error) {
	var msg Message
	err := c.call("sendMessage", map[string]any{
		"chat_id":      chatID,
		"text":         text,
		"parse_mode":   "Markdown",
		"reply_markup": markup,
	}, &msg)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessageText rewrites a previously sent message. A nil markup removes
// the keyboard.
func (c *Client) EditMessageText(chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call("editMessageText", payload, nil)
}

// AnswerCallbackQuery acknowledges a button tap so the client stops showing
// a progress indicator.
func (c *Client) AnswerCallbackQuery(id string) error {
	return c.call("answerCallbackQuery", map[string]any{
		"callback_query_id": id,
	}, nil)
}
