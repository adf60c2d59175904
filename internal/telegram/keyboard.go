package telegram

import (
	"github.com/go-telegram/bot/models"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// Choice is one selectable option of a settings keyboard.
type Choice struct {
	Value string
	Label string
}

// ChoiceKeyboard lays out choices perRow to a row. The selected value is
// marked and every button carries prefix+value as callback data.
func ChoiceKeyboard(choices []Choice, selected, prefix string, perRow int) *models.InlineKeyboardMarkup {
	if perRow < 1 {
		perRow = 1
	}

	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, c := range choices {
		label := c.Label
		if c.Value == selected {
			label = "✅ " + label
		}
		row = append(row, InlineButton(label, prefix+c.Value))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return InlineKeyboard(rows...)
}
