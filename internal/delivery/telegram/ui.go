package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/service"
)

const playButtonsPerRow = 2

// buildVocabKeyboard builds one play button per vocabulary entry.
func buildVocabKeyboard(vocab []entities.VocabEntry) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(vocab))
	for i, v := range vocab {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("🔊 "+v.Headword, buildPlayCallback(service.KindVocab, i)))
	}
	return gridKeyboard(buttons, playButtonsPerRow)
}

// buildSentenceKeyboard builds one play button per sentence.
func buildSentenceKeyboard(sentences []entities.SentenceEntry) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(sentences))
	for i, s := range sentences {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("▶️ "+s.Text, buildPlayCallback(service.KindSentence, i)))
	}
	return gridKeyboard(buttons, 1)
}

// buildQuizAnswerKeyboard builds keyboard for the current quiz question.
func buildQuizAnswerKeyboard(qs *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	cur, _ := qs.Current()

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range cur.Options {
		button := tgbotapi.NewInlineKeyboardButtonData(option, buildQuizAnswerCallback(qs.CurrentIndex, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	if cur.Question.AudioRef != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎧 播放題目音檔", buildQuizAudioCallback()),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 再來一局 (重新抽題)", buildQuizRestartCallback()),
		),
	)
}

func gridKeyboard(buttons []tgbotapi.InlineKeyboardButton, perRow int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for start := 0; start < len(buttons); start += perRow {
		end := min(start+perRow, len(buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[start:end]...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
