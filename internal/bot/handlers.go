package bot

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/mediline/apptbot/core/logger"
	coretelegram "github.com/mediline/apptbot/core/telegram"
	"github.com/mediline/apptbot/core/telegram/callbacks"
	"github.com/mediline/apptbot/core/telegram/commands"
	tghelpers "github.com/mediline/apptbot/core/telegram/helpers"
	"github.com/mediline/apptbot/core/telegram/keyboard"
	"github.com/mediline/apptbot/internal/conversation"
	"github.com/mediline/apptbot/internal/storage"
)

func userFrom(c tele.Context) conversation.User {
	s := c.Sender()
	if s == nil {
		return conversation.User{}
	}
	return conversation.User{
		ID:           s.ID,
		Username:     s.Username,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		LanguageCode: s.LanguageCode,
		IsBot:        s.IsBot,
		IsPremium:    s.IsPremium,
	}
}

// sendReply renders an engine reply: reply keyboard rows plus optional
// Markdown parse mode.
func sendReply(c tele.Context, reply conversation.Reply) error {
	var markup *tele.ReplyMarkup
	if len(reply.Keyboard) > 0 {
		markup = keyboard.ReplyButtons(reply.Keyboard...)
	} else {
		markup = keyboard.RemoveKeyboard()
	}
	if reply.Markdown {
		return tghelpers.SendMD(c, reply.Text, markup)
	}
	return tghelpers.SendText(c, reply.Text, &tele.SendOptions{ReplyMarkup: markup})
}

// engineFSM adapts the conversation engine to the text router's FSM shape.
type engineFSM struct {
	engine *conversation.Engine
}

func (f *engineFSM) InProgress(userID int64) bool {
	return f.engine.InProgress(logger.Background(), userID)
}

func (f *engineFSM) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := f.engine.Handle(ctx, userFrom(c), c.Text())
	if reply.Text != "" {
		if sendErr := sendReply(c, reply); sendErr != nil {
			return sendErr
		}
	}
	return err
}

func (a *App) onUnknownText(c tele.Context) error {
	// Outside a booking flow every message still goes through the engine;
	// it answers menu presses and nudges anything else to the menu.
	fsm := engineFSM{engine: a.engine}
	return fsm.ManagerHandler(c)
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start over",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			reply, err := a.engine.Reset(ctx, userFrom(c))
			if err != nil {
				return err
			}
			return sendReply(c, reply)
		},
	})
	reg.RegisterCommand("/book", commands.Command{
		Description: "Book an appointment",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			reply, err := a.engine.StartBooking(ctx, userFrom(c))
			if err != nil {
				return err
			}
			return sendReply(c, reply)
		},
	})
	reg.RegisterCommand("/doctors", commands.Command{
		Description: "View our doctors",
		Handler: func(c tele.Context) error {
			return sendReply(c, a.engine.Doctors(userFrom(c).LanguageCode))
		},
	})
	reg.RegisterCommand("/help", commands.Command{
		Description: "How to use this bot",
		Handler: func(c tele.Context) error {
			return sendReply(c, a.engine.Help(userFrom(c).LanguageCode))
		},
	})
	reg.RegisterCommand("/contact", commands.Command{
		Description: "Clinic contact details",
		Handler: func(c tele.Context) error {
			return sendReply(c, a.engine.Contact(userFrom(c).LanguageCode))
		},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Description: "Booking statistics",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     a.onStats,
	})
	reg.RegisterCommand("/remind", commands.Command{
		Description: "Email reminders for tomorrow's appointments",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     a.onRemind,
	})
}

// onRemind emails a reminder to every patient booked for the next day.
// Runs synchronously so the admin sees the outcome in one reply.
func (a *App) onRemind(c tele.Context) error {
	if a.mailer == nil {
		return tghelpers.SendText(c, "Email notifications are disabled.")
	}
	ctx := tghelpers.BuildContext(c)
	date := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	appts, err := a.records.OnDate(ctx, date)
	if err != nil {
		logger.Error(ctx, "app", "remind.query_failed", slog.String("err", err.Error()))
		return tghelpers.SendText(c, "Could not load tomorrow's appointments.")
	}
	if len(appts) == 0 {
		return tghelpers.SendText(c, fmt.Sprintf("No appointments on %s.", date))
	}

	var sent, failed int
	for _, appt := range appts {
		if appt.Email == "" {
			continue
		}
		if err := a.mailer.SendReminder(ctx, appt); err != nil {
			failed++
			logger.Warn(ctx, "app", "remind.send_failed",
				slog.String("appointment_id", appt.ID),
				slog.String("err", err.Error()),
			)
			continue
		}
		sent++
	}
	return tghelpers.SendText(c, fmt.Sprintf(
		"Reminders for %s: %d sent, %d failed, %d of %d without email.",
		date, sent, failed, len(appts)-sent-failed, len(appts)))
}

const (
	statsRefreshKey  = "stats.refresh"
	statsLatestCount = 5
)

func statsMarkup(latest int) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🔄 Refresh", Unique: statsRefreshKey, Data: strconv.Itoa(latest)},
	})
}

func (a *App) onStats(c tele.Context) error {
	text, err := a.statsText(c, statsLatestCount)
	if err != nil {
		return tghelpers.SendText(c, "Statistics are unavailable right now.")
	}
	return tghelpers.SendMD(c, text, statsMarkup(statsLatestCount))
}

func (a *App) onStatsRefresh(c tele.Context) error {
	if admin := a.cfg.Core.Telegram.AdminID; admin != 0 && c.Sender() != nil && c.Sender().ID != admin {
		return nil
	}
	latest, err := callbacks.PayloadInt(c)
	if err != nil {
		latest = statsLatestCount
	}
	text, err := a.statsText(c, latest)
	if err != nil {
		return tghelpers.EditOrSendMD(c, "Statistics are unavailable right now.")
	}
	return tghelpers.EditOrSendMD(c, text, statsMarkup(latest))
}

func (a *App) statsText(c tele.Context, latest int) (string, error) {
	ctx := tghelpers.BuildContext(c)
	today := time.Now().UTC().Format("2006-01-02")

	stats, err := a.records.Stats(ctx, today, latest)
	if err != nil {
		logger.Error(ctx, "app", "stats.failed",
			slog.String("err", err.Error()),
		)
		return "", err
	}
	return renderStats(stats, today), nil
}

func renderStats(s storage.Stats, today string) string {
	var b strings.Builder
	b.WriteString("📊 *Booking Statistics*\n\n")
	fmt.Fprintf(&b, "Total appointments: *%d*\n", s.Total)
	fmt.Fprintf(&b, "Today (%s): *%d*\n", today, s.Today)
	fmt.Fprintf(&b, "Upcoming: *%d*\n", s.Upcoming)

	if len(s.ByDoctor) > 0 {
		b.WriteString("\n*By doctor:*\n")
		for _, row := range s.ByDoctor {
			fmt.Fprintf(&b, "• %s: %d\n", row.DoctorName, row.Count)
		}
	}
	if len(s.ByDay) > 0 {
		b.WriteString("\n*Upcoming days:*\n")
		for _, row := range s.ByDay {
			fmt.Fprintf(&b, "• %s: %d\n", row.Date, row.Count)
		}
	}
	if len(s.Latest) > 0 {
		b.WriteString("\n*Latest bookings:*\n")
		for _, appt := range s.Latest {
			fmt.Fprintf(&b, "• `%s` %s with %s on %s %s\n",
				appt.ID, appt.PatientName, appt.DoctorName, appt.Date, appt.Time)
		}
	}
	return b.String()
}
