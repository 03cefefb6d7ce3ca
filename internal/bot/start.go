package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/service"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

// handleStart greets a new user and kicks off registration, or drops a
// returning user straight into the main menu. A deep-link payload after
// the command is treated as a referral code.
func (b *Bot) handleStart(ctx context.Context, msg *telegram.Message) {
	l := logging.FromContext(ctx).With("handler", "start")
	userID := msg.From.ID

	user, err := b.Users.GetUser(ctx, userID)
	if err != nil {
		l.Error("get_user_failed", "user_id", userID, "error", err)
		return
	}
	if user != nil {
		b.mainMenu(ctx, userID, user.LanguageCode)
		return
	}

	refCode := ""
	if parts := strings.Fields(msg.Text); len(parts) > 1 {
		refCode = strings.ToUpper(parts[1])
	}

	b.Sessions.Update(userID, func(s *session.Session) {
		s.State = session.StateAwaitingLanguage
		s.Data = session.Data{ReferralCode: refCode}
	})

	b.reply(ctx, userID, texts.Get("welcome", models.LocaleUz), languageKeyboard())
}

// languageSelected handles the lang_* callbacks: during registration it
// advances the flow to the contact step, afterwards it just switches the
// stored locale.
func (b *Bot) languageSelected(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "language")
	userID := cb.From.ID
	locale := strings.TrimPrefix(cb.Data, "lang_")
	if locale != models.LocaleUz && locale != models.LocaleRu {
		return
	}

	sess := b.Sessions.Get(userID)
	if sess.State == session.StateAwaitingLanguage {
		b.Sessions.Update(userID, func(s *session.Session) {
			s.State = session.StateAwaitingContact
			s.Data.Language = locale
		})
		b.reply(ctx, userID, texts.Get("registration_needed", locale), contactKeyboard(locale))
		return
	}

	if err := b.Users.SetLanguage(ctx, userID, locale); err != nil {
		l.Error("set_language_failed", "user_id", userID, "error", err)
		return
	}
	b.mainMenu(ctx, userID, locale)
}

// contactReceived accepts the shared contact during registration. Typed
// text is ignored; the flow insists on the contact button.
func (b *Bot) contactReceived(ctx context.Context, msg *telegram.Message, sess session.Session) {
	userID := msg.From.ID
	locale := sess.Data.Language

	if msg.Contact == nil {
		b.reply(ctx, userID, texts.Get("registration_needed", locale), contactKeyboard(locale))
		return
	}

	b.Sessions.Update(userID, func(s *session.Session) {
		s.State = session.StateAwaitingAddress
		s.Data.Phone = msg.Contact.PhoneNumber
	})
	b.reply(ctx, userID, texts.Get("enter_address", locale), telegram.ReplyKeyboardRemove{RemoveKeyboard: true})
}

// addressReceived completes registration: the user row is created, the
// referral edge (if any) is linked, and the referrer may get their bonus.
func (b *Bot) addressReceived(ctx context.Context, msg *telegram.Message, sess session.Session) {
	l := logging.FromContext(ctx).With("handler", "register")
	userID := msg.From.ID
	locale := sess.Data.Language
	address := strings.TrimSpace(msg.Text)

	if address == "" {
		b.reply(ctx, userID, texts.Get("enter_address", locale), nil)
		return
	}

	user, err := b.Users.Register(ctx, service.RegisterInput{
		TelegramID: userID,
		Username:   msg.From.Username,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		Locale:     locale,
		Phone:      sess.Data.Phone,
		Address:    address,
		ReferredBy: sess.Data.ReferralCode,
	})
	if err != nil {
		l.Error("register_failed", "user_id", userID, "error", err)
		b.reply(ctx, userID, texts.Get("error_generic", locale), nil)
		return
	}

	referrerID, awarded, err := b.Referrals.Register(ctx, sess.Data.ReferralCode, userID)
	if err != nil {
		// The new user is registered either way; the edge can be repaired
		// by support.
		l.Error("referral_link_failed", "user_id", userID, "code", sess.Data.ReferralCode, "error", err)
	}
	if awarded {
		b.notifyReferrer(ctx, referrerID)
	}

	b.Sessions.Clear(userID)

	text := fmt.Sprintf(texts.Get("registration_complete", user.LanguageCode), user.ReferralCode)
	b.reply(ctx, userID, text, mainMenuKeyboard(user.LanguageCode))
}

func (b *Bot) notifyReferrer(ctx context.Context, referrerID int64) {
	referrer, err := b.Users.GetUser(ctx, referrerID)
	if err != nil || referrer == nil {
		logging.FromContext(ctx).Error("referrer_lookup_failed", "referrer_id", referrerID, "error", err)
		return
	}
	b.Notify.NotifyReferralBonus(ctx, referrerID, referrer.LanguageCode, b.Cfg.ReferralBonus)
}

func (b *Bot) askLanguage(ctx context.Context, userID int64) {
	b.reply(ctx, userID, texts.Get("choose_language", models.LocaleUz), languageKeyboard())
}
