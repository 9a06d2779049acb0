// Package keyboards — клавиатуры бота: reply-клавиатуры пошаговых
// диалогов и inline-клавиатуры выбора турно.
package keyboards

import "github.com/go-telegram/bot/models"

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Button создаёт inline-кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// ConfirmCancelRow создаёт ряд с кнопками Подтвердить/Cancelar
func ConfirmCancelRow(confirmText, confirmCallback, cancelText, cancelCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button(confirmText, confirmCallback),
		Button(cancelText, cancelCallback),
	}
}

// replyRows строит reply-клавиатуру из подписей, по одной кнопке в ряду
func replyRows(labels ...string) [][]models.KeyboardButton {
	rows := make([][]models.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []models.KeyboardButton{{Text: label}})
	}
	return rows
}

// Reply строит одноразовую reply-клавиатуру шага диалога
func Reply(labels ...string) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:        replyRows(labels...),
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
