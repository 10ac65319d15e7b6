// Package parser turns raw chat messages into typed commands using a small
// participle grammar. The transport strips the leading "/" or "!" marker
// before handing the text over.
package parser

// Command represents a top-level action requested in chat.
type Command struct {
	Roll    *RollCmd    `parser:"( @@"`
	Dice    *DiceCmd    `parser:"| @@"`
	Summary *SummaryCmd `parser:"| @@"`
	Ping    *PingCmd    `parser:"| @@"`
	Help    *HelpCmd    `parser:"| @@ )"`
}

// RollCmd starts an interactive stat check.
type RollCmd struct {
	Keyword string `parser:"@(\"roll\"|\"Roll\"|\"ROLL\")"`
}

// DiceCmd rolls a plain die with the given number of faces.
type DiceCmd struct {
	Keyword string `parser:"@(\"dice\"|\"Dice\"|\"DICE\")"`
	Faces   int    `parser:"@Int"`
}

// SummaryCmd requests the per-stat mastery table of the caller.
type SummaryCmd struct {
	Keyword string `parser:"@(\"summary\"|\"Summary\"|\"SUMMARY\")"`
}

// PingCmd checks the bot is alive.
type PingCmd struct {
	Keyword string `parser:"@(\"ping\"|\"Ping\"|\"PING\")"`
}

// HelpCmd lists the available commands.
type HelpCmd struct {
	Keyword string `parser:"@(\"help\"|\"Help\"|\"HELP\")"`
}
