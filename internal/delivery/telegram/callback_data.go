package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz = "quiz"
	actionPlay = "play"
)

// Quiz sub-actions.
const (
	quizAnswer  = "answer"
	quizRestart = "restart"
	quizAudio   = "audio"
)

var errMalformedCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// intParam returns Params[i] as a non-negative integer.
func (cd callbackData) intParam(i int) (int, error) {
	if i >= len(cd.Params) {
		return 0, errMalformedCallback
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil || n < 0 {
		return 0, errMalformedCallback
	}
	return n, nil
}

// buildQuizAnswerCallback encodes the question position with the option index
// so a tap on an old keyboard cannot answer a later question.
func buildQuizAnswerCallback(position, choice int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizAnswer, strconv.Itoa(position), strconv.Itoa(choice)},
	}.encode()
}

func buildQuizRestartCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizRestart}}.encode()
}

func buildQuizAudioCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizAudio}}.encode()
}

func buildPlayCallback(kind string, index int) string {
	return callbackData{
		Action: actionPlay,
		Params: []string{kind, strconv.Itoa(index)},
	}.encode()
}
