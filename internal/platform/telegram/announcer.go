package telegram

import (
	"context"
	"fmt"
	"strings"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/features/giveaway/models"
)

// Announcer composes and delivers the bot's channel posts and direct
// messages. Every failure is wrapped as a delivery error so callers can tell
// it apart from storage failures.
type Announcer struct {
	client *Client
}

func NewAnnouncer(client *Client) *Announcer {
	return &Announcer{client: client}
}

// AnnounceWinners posts the results message to the giveaway's channel.
// Winners are listed as @username when known, otherwise as ID:<id>.
func (a *Announcer) AnnounceWinners(ctx context.Context, g *models.Giveaway, usernames map[int64]string) error {
	var message string
	if len(g.Winners) == 0 {
		message = fmt.Sprintf("🏆 Розыгрыш '%s' завершен!\n\nК сожалению, не было участников.", g.Name)
	} else {
		labels := make([]string, 0, len(g.Winners))
		for _, winnerID := range g.Winners {
			if username, ok := usernames[winnerID]; ok && username != "" {
				labels = append(labels, "@"+username)
			} else {
				labels = append(labels, fmt.Sprintf("ID:%d", winnerID))
			}
		}
		message = fmt.Sprintf("🏆 Розыгрыш '%s' завершен!\n\nПобедители:\n%s\n\nПоздравляем!",
			g.Name, strings.Join(labels, "\n"))
	}

	if err := a.client.SendMessage(ctx, g.ChannelID, message); err != nil {
		return apperrors.NewDeliveryError(g.ChannelID, err)
	}
	return nil
}

// AnnounceCreated posts the new-giveaway message to the channel.
func (a *Announcer) AnnounceCreated(ctx context.Context, g *models.Giveaway) error {
	message := fmt.Sprintf(
		"🎉 Новый розыгрыш!\n\n"+
			"🏆 Название: %s\n"+
			"👑 Количество победителей: %d\n"+
			"⏰ Дата окончания: %s\n\n"+
			"Для участия нажмите кнопку ниже!",
		g.Name, g.WinnersCount, g.AnnouncementAt.Format(models.InputTimeLayout),
	)

	if err := a.client.SendMessage(ctx, g.ChannelID, message); err != nil {
		return apperrors.NewDeliveryError(g.ChannelID, err)
	}
	return nil
}

// SendReferralJoined notifies the referrer that someone registered through
// their link.
func (a *Announcer) SendReferralJoined(ctx context.Context, referrerID int64, referredName string, invitedTotal int) error {
	message := fmt.Sprintf(
		"🎉 По вашей ссылке зарегистрировался новый пользователь: @%s\n"+
			"Теперь у вас %d приглашенных друзей!",
		referredName, invitedTotal,
	)

	if err := a.client.SendMessage(ctx, referrerID, message); err != nil {
		return apperrors.NewDeliveryError(referrerID, err)
	}
	return nil
}

// SendChannelConnected posts the welcome message when a channel is linked.
func (a *Announcer) SendChannelConnected(ctx context.Context, channelID int64) error {
	message := "🎉 Этот канал теперь подключен к боту розыгрышей!\n" +
		"Администраторы могут создавать здесь розыгрыши."

	if err := a.client.SendMessage(ctx, channelID, message); err != nil {
		return apperrors.NewDeliveryError(channelID, err)
	}
	return nil
}
