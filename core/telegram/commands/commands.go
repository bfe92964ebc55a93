package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command is one registered slash command. Hidden commands are executable
// but left out of the Telegram command menu; AdminOnly ones additionally
// require the configured admin sender.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
