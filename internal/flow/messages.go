package flow

import "fmt"

const (
	ConfirmPayload = "confirm_subscribed"

	confirmLabel      = "Подписка оформлена!"
	confirmRetryLabel = "Теперь точно подписан!"
	checkingAck       = "Проверяю подписку…"

	welcomeText = "Привет! На связи MindGate.\n\n" +
		"Напиши ключевое слово из видео, и я сразу пришлю тебе твой бонус."
	pressStartText   = "Нажми /start и следуй инструкции, чтобы получить бонус."
	verifyFailedText = "Не удалось проверить подписку. Убедись, что бот — админ канала и попробуй ещё раз."
)

func unknownKeywordText(example string) string {
	if example == "" {
		return "Я не узнал ключевое слово. Отправь слово из видео."
	}
	return fmt.Sprintf("Я не узнал ключевое слово. Отправь слово из видео (например: %s).", example)
}

func sendKeywordFirstText(example string) string {
	if example == "" {
		return "Сначала отправь ключевое слово из видео."
	}
	return fmt.Sprintf("Сначала отправь ключевое слово из видео (например: %s).", example)
}

func subscribeText(channelLink string) string {
	return "Остался последний шаг! Нужно быть подписанным на телеграм‑канал: " + channelLink
}

func notSubscribedText(channelLink string) string {
	return "Ой, кажется, подписки пока нет. 🧐\n\n" +
		"Пожалуйста, убедись, что ты подписался на канал, и попробуй нажать на кнопку ещё раз. " +
		"Вот ссылка на канал: " + channelLink
}

func rewardText(url string) string {
	return "Держи твой бонус: " + url
}
