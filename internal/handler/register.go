package handler

import (
	"github.com/go-telegram/bot"
)

const (
	cbModel  = "model:"
	cbPrompt = "prompt:"
	cbLang   = "lang:"
	cbForget = "forget:"
)

// Register registers all command and callback handlers on the bot instance.
// Plain text, including links to analyze, reaches HandleText through the
// bot's default handler.
func (h *Handler) Register() {
	commands := map[string]bot.HandlerFunc{
		"start":      h.handleStart,
		"help":       h.handleHelp,
		"status":     h.handleStatus,
		"history":    h.handleHistory,
		"show":       h.handleShow,
		"delete":     h.handleDelete,
		"forget":     h.handleForget,
		"config":     h.handleConfig,
		"model":      h.handleModel,
		"models":     h.handleModels,
		"prompt":     h.handlePrompt,
		"prompts":    h.handlePrompts,
		"lang":       h.handleLang,
		"maxlen":     h.handleMaxLen,
		"caching":    h.handleCaching,
		"expiration": h.handleExpiration,
		"voices":     h.handleVoices,
	}
	for name, fn := range commands {
		h.bot.RegisterHandler(bot.HandlerTypeMessageText, name, bot.MatchTypeCommandStartOnly, fn)
	}

	// Settings callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbModel, bot.MatchTypePrefix, h.handleModelSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbPrompt, bot.MatchTypePrefix, h.handlePromptSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbLang, bot.MatchTypePrefix, h.handleLangSelect)

	// Account removal confirmation
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbForget, bot.MatchTypePrefix, h.handleForgetConfirm)
}
