package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.stateManager.Clear(chatID)

	welcomeText := fmt.Sprintf(
		"👋 ¡Hola, %s!\n\n"+
			"Soy el asistente del consultorio. Desde el menú podés solicitar, "+
			"cancelar o cambiar un turno, o comunicarte con la secretaría.\n\n"+
			"Comandos:\n"+
			"/start - Volver al menú principal\n"+
			"/help - Ayuda\n"+
			"/cancel - Cancelar la acción actual",
		update.Message.From.FirstName,
	)

	h.send(ctx, chatID, welcomeText, keyboards.MainMenu())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "ℹ️ Ayuda:\n\n" +
		"📅 Turno - Solicitar, cancelar o cambiar un turno\n" +
		"🧑‍💼 Comunicarse con Secretaría - Dejar un mensaje al consultorio\n\n" +
		"Comandos:\n" +
		"/start - Volver al menú principal\n" +
		"/cancel - Cancelar la acción actual\n\n" +
		"Los turnos duran " + fmt.Sprintf("%d", int(h.cfg.SlotDuration.Minutes())) +
		" minutos, de " + fmt.Sprintf("%d:00 a %d:00", h.cfg.OfficeStartHour, h.cfg.OfficeEndHour) + "."

	h.send(ctx, update.Message.Chat.ID, helpText, keyboards.MainMenu())
}

// HandleCancelAction обрабатывает /cancel и кнопку отмены текущего действия
func (h *Handlers) HandleCancelAction(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.cancelAction(ctx, update.Message.Chat.ID)
}

func (h *Handlers) cancelAction(ctx context.Context, chatID int64) {
	if h.stateManager.State(chatID) == state.StateNone {
		h.send(ctx, chatID, "No hay ninguna acción en curso.", keyboards.MainMenu())
		return
	}

	h.stateManager.Clear(chatID)
	h.send(ctx, chatID, "🚫 Acción cancelada.", keyboards.MainMenu())
}

// HandleTextMessage обрабатывает все некомандные сообщения: кнопки меню
// в спокойном состоянии и шаги активного диалога по состоянию.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	// Фото и документы идут секретарю независимо от состояния
	if len(msg.Photo) > 0 || msg.Document != nil {
		h.handleAttachment(ctx, msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	currentState := h.stateManager.State(chatID)

	h.logger.Info("Handling text message",
		zap.Int64("chat_id", chatID),
		zap.String("state", string(currentState)))

	if text == keyboards.BtnCancelarAccion {
		h.cancelAction(ctx, chatID)
		return
	}

	if currentState == state.StateNone {
		h.handleMenu(ctx, msg, text)
		return
	}

	// Попытка начать новую операцию поверх активной отклоняется
	if isMenuAction(text) {
		h.send(ctx, chatID,
			"⚠️ Ya tenés una acción en curso. Usá "+keyboards.BtnCancelarAccion+" para cancelarla primero.",
			keyboards.Cancel())
		return
	}

	switch currentState {
	case state.StateBookingDoctor:
		h.handleBookingDoctorStep(ctx, msg, text)
	case state.StateBookingDay:
		h.handleBookingDayStep(ctx, msg, text)
	case state.StateBookingTime:
		h.handleBookingTimeStep(ctx, msg, text)
	case state.StateCancelSelect, state.StateEditSelect, state.StateEditConfirm, state.StateEditFinalConfirm:
		// На этих шагах ждём нажатия inline-кнопки, не текста
		h.send(ctx, chatID, "Usá los botones del mensaje de arriba para elegir. 👆", nil)
	case state.StateEditNewDay:
		h.handleEditNewDayStep(ctx, msg, text)
	case state.StateEditNewTime:
		h.handleEditNewTimeStep(ctx, msg, text)
	case state.StateTalkingToSecretary:
		h.handleSecretaryMessage(ctx, msg, text)
	default:
		h.logger.Warn("Unknown dialog state, resetting",
			zap.Int64("chat_id", chatID),
			zap.String("state", string(currentState)))
		h.stateManager.Clear(chatID)
		h.send(ctx, chatID, "Algo salió mal, volvamos a empezar.", keyboards.MainMenu())
	}
}

// handleMenu обрабатывает кнопки меню в спокойном состоянии
func (h *Handlers) handleMenu(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	switch text {
	case keyboards.BtnTurno:
		h.send(ctx, chatID, "¿Qué querés hacer con tu turno?", keyboards.TurnoMenu())
	case keyboards.BtnVolver:
		h.send(ctx, chatID, "Menú principal:", keyboards.MainMenu())
	case keyboards.BtnTurnoSolicitar:
		h.startBooking(ctx, chatID)
	case keyboards.BtnTurnoEliminar:
		h.startCancel(ctx, msg)
	case keyboards.BtnTurnoEditar:
		h.startEdit(ctx, msg)
	case keyboards.BtnTurnoDoctor:
		h.send(ctx, chatID,
			"👨‍⚕️ Atienden en el consultorio:\n\n• "+strings.Join(h.cfg.DoctorNames(), "\n• "),
			keyboards.TurnoMenu())
	case keyboards.BtnTurnoSecretaria:
		h.startSecretary(ctx, chatID)
	default:
		h.send(ctx, chatID, "No entendí eso. 🤔 Usá los botones del menú:", keyboards.MainMenu())
	}
}

func isMenuAction(text string) bool {
	switch text {
	case keyboards.BtnTurno, keyboards.BtnTurnoSolicitar, keyboards.BtnTurnoEliminar,
		keyboards.BtnTurnoEditar, keyboards.BtnTurnoDoctor,
		keyboards.BtnTurnoSecretaria, keyboards.BtnVolver:
		return true
	}
	return false
}

// handleAttachment пересылает фото/документ секретарю
func (h *Handlers) handleAttachment(ctx context.Context, msg *models.Message) {
	chatID := msg.Chat.ID

	if err := h.secretary.ForwardDocument(ctx, msg.From, chatID, msg.ID); err != nil {
		h.logger.Error("Failed to forward attachment",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		h.send(ctx, chatID, "⚠️ No pude reenviar el archivo. Probá de nuevo más tarde.", nil)
		return
	}

	h.send(ctx, chatID, "📎 Recibido, lo pasé a la secretaría. Te van a responder a la brevedad.", nil)
}
