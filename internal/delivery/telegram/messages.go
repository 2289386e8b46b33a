package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
	"github.com/aliskhannn/kakaenen/internal/service"
)

const (
	msgInternalError    = "發生錯誤，請稍後再試。"
	msgUnknownCommand   = "看不懂這個指令。輸入 /help 查看可用指令。"
	msgAlreadyAnswered  = "這題已經作答過了"
	msgQuizExpired      = "這局測驗已過期，請輸入 /quiz 重新開始。"
	msgAudioUnavailable = "🔇 (語音生成暫時無法使用)"
	msgAudioNotFound    = "🔇 (找不到音檔)"
	msgCorrect          = "🎉 答對了！"
	msgWrongFmt         = "不對喔！提示：%s"
	msgChooseAnswer     = "請選擇正確答案："
	msgQuizDone         = "🏆 挑戰成功！"
	msgQuizDoneFooter   = "你已經學會飲食相關用語了！"
)

const msgHelp = `/vocab 核心單字
/sentences 實用句型
/quiz 隨機挑戰
/help 指令說明`

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func unitHeader(u entities.Unit) string {
	header := bold(fmt.Sprintf("Unit %d: %s", u.Number, u.Title))
	if u.Subtitle != "" {
		header += "\n" + md(u.Subtitle)
	}
	return header
}

func welcomeText(u entities.Unit) string {
	return unitHeader(u) + "\n\n" + md(msgHelp)
}

func vocabularyText(u entities.Unit, vocab []entities.VocabEntry) string {
	var sb strings.Builder
	sb.WriteString(unitHeader(u))
	sb.WriteString("\n\n")
	sb.WriteString(bold("📝 核心單字"))
	sb.WriteString("\n")

	for _, v := range vocab {
		sb.WriteString("\n")
		sb.WriteString(md(v.Icon + " "))
		sb.WriteString(bold(v.Headword))
		sb.WriteString(md(" — " + v.Translation))
		if v.Source != "" {
			sb.WriteString("\n")
			sb.WriteString(italic("src: " + v.Source))
		}
	}

	return sb.String()
}

func sentencesText(u entities.Unit, sentences []entities.SentenceEntry) string {
	var sb strings.Builder
	sb.WriteString(unitHeader(u))
	sb.WriteString("\n\n")
	sb.WriteString(bold("🗣️ 實用句型"))
	sb.WriteString("\n")

	for _, s := range sentences {
		sb.WriteString("\n")
		sb.WriteString(md(s.Icon + " "))
		sb.WriteString(bold(s.Text))
		sb.WriteString("\n")
		sb.WriteString(md(s.Translation))
		if s.Source != "" {
			sb.WriteString("\n")
			sb.WriteString(italic("src: " + s.Source))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// questionText renders the current question with a progress line.
func questionText(qs *entities.QuizSession) string {
	cur, ok := qs.Current()
	if !ok {
		return resultText(qs)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s",
		md(progressBar(qs.CurrentIndex, qs.Total(), 10)),
		bold(fmt.Sprintf("Question %d / %d", qs.CurrentIndex+1, qs.Total())),
		bold(cur.Question.Prompt),
		md(msgChooseAnswer),
	)
}

// answeredText replaces an answered question so its buttons disappear.
func answeredText(answer entities.QuizAnswer) string {
	feedback := msgCorrect
	if !answer.IsCorrect {
		feedback = fmt.Sprintf(msgWrongFmt, answer.Hint)
	}

	return fmt.Sprintf("%s\n%s\n\n%s",
		bold(answer.Prompt),
		md("➡️ "+answer.Selected),
		md(feedback),
	)
}

func resultText(qs *entities.QuizSession) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		bold(msgQuizDone),
		md(fmt.Sprintf("本次得分：%d", qs.Score)),
		md(msgQuizDoneFooter),
	)
}

func degradedText(reason service.DegradedReason) string {
	if reason == service.ReasonNotFound {
		return msgAudioNotFound
	}
	return msgAudioUnavailable
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := done * width / total
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}
