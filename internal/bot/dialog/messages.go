package dialog

import (
	"fmt"
	"time"

	"github.com/sorare-price-bot/server/internal/bot/model"
)

const (
	MsgWelcome        = "🔍 Введите имя футболиста (например, \"Messi\"):"
	MsgEmptyName      = "❌ Введите имя игрока"
	MsgNotFound       = "🔍 Игрок не найден"
	MsgChoosePlayer   = "🔢 Выберите игрока:"
	MsgSelectionError = "❌ Ошибка выбора"
	MsgFetchFailed    = "⚠️ Ошибка получения данных"
	MsgCancelled      = "❌ Отменено"

	noCardsFormat = "ℹ️ %s: Нет карточек"
	priceFormat   = "✅ %s\nМинимальная цена: %.2f %s\n🕒 %s"
	timeLayout    = "15:04:05"
)

func noCardsMessage(p model.Player) string {
	return fmt.Sprintf(noCardsFormat, p.DisplayName)
}

func priceMessage(p model.Player, price float64, at time.Time) string {
	return fmt.Sprintf(priceFormat, p.DisplayName, price, model.Currency, at.Format(timeLayout))
}

func candidateOptions(players []model.Player) []string {
	opts := make([]string, 0, len(players))
	for _, p := range players {
		opts = append(opts, p.DisplayName)
	}
	return opts
}
