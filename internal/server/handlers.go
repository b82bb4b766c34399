package server

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/seladavis/forgebot/internal/domain"
	"github.com/seladavis/forgebot/internal/slack"
)

// Command patterns, checked in order. The long-form phrases predate the
// bang commands and are kept for muscle memory.
var (
	answerPattern      = regexp.MustCompile(`!a `)
	startPattern       = regexp.MustCompile(`(?i)!t$`)
	hintPattern        = regexp.MustCompile(`(?i)!h$`)
	skipPattern        = regexp.MustCompile(`(?i)!skip$`)
	topPattern         = regexp.MustCompile(`(?i)!top$`)
	resetPattern       = regexp.MustCompile(`(?i)reset$`)
	helpPattern        = regexp.MustCompile(`(?i)help$`)
	startLongPattern   = regexp.MustCompile(`(?i)jeopardy me`)
	scorePattern       = regexp.MustCompile(`(?i)my score$`)
	leaderboardPattern = regexp.MustCompile(`(?i)show (me\s+)?(the\s+)?leaderboard$`)
	loserboardPattern  = regexp.MustCompile(`(?i)show (me\s+)?(the\s+)?loserboard$`)
)

func (s *Server) handleWebhook(c echo.Context) error {
	cmd := domain.Command{
		ChannelID:   c.FormValue("channel_id"),
		ChannelName: c.FormValue("channel_name"),
		UserID:      c.FormValue("user_id"),
		UserName:    c.FormValue("user_name"),
		Text:        strings.TrimSpace(c.FormValue("text")),
		Timestamp:   s.parseTimestamp(c.FormValue("timestamp")),
	}

	logger := slog.With(
		"request_id", uuid.NewString(),
		"channel_id", cmd.ChannelID,
		"user_id", cmd.UserID,
	)

	if c.FormValue("token") != s.config.WebhookToken {
		logger.Warn("webhook token mismatch")
		return s.respond(c, "Invalid token")
	}
	if _, blocked := s.blacklist[cmd.ChannelName]; blocked {
		return s.respond(c, "Sorry, can't play in this channel.")
	}

	reply, kind, err := s.dispatch(c.Request().Context(), cmd, logger)
	s.metrics.Command(kind)
	if err != nil {
		logger.Error("command failed", "command", kind, "error", err)
		return s.respond(c, "")
	}
	if kind != "none" {
		logger.Info("command handled", "command", kind)
	}
	return s.respond(c, reply)
}

// dispatch routes the message text to a game operation. Unrecognized text
// yields an empty reply, since every channel message hits this endpoint.
func (s *Server) dispatch(ctx context.Context, cmd domain.Command, logger *slog.Logger) (string, string, error) {
	text := cmd.Text
	switch {
	case answerPattern.MatchString(text):
		reply, err := s.game.SubmitAnswer(ctx, cmd, answerText(text))
		return reply, "answer", err

	case startPattern.MatchString(text), startLongPattern.MatchString(text):
		reply, err := s.game.StartOrRepeatRound(ctx, cmd.ChannelID, cmd.Timestamp)
		return reply, "start", err

	case hintPattern.MatchString(text):
		reply, err := s.game.RequestHint(ctx, cmd.ChannelID)
		return reply, "hint", err

	case skipPattern.MatchString(text):
		reveal, err := s.game.Skip(ctx, cmd.ChannelID)
		if err != nil {
			return "", "skip", err
		}
		next, err := s.game.StartOrRepeatRound(ctx, cmd.ChannelID, cmd.Timestamp)
		if err != nil {
			return "", "skip", err
		}
		return reveal + next, "skip", nil

	case topPattern.MatchString(text), leaderboardPattern.MatchString(text):
		reply, err := s.game.Leaderboard(ctx, false)
		return reply, "leaderboard", err

	case resetPattern.MatchString(text):
		return s.handleReset(ctx, cmd, logger)

	case helpPattern.MatchString(text):
		return s.game.Help(), "help", nil

	case scorePattern.MatchString(text):
		reply, err := s.game.UserScore(ctx, cmd.UserID)
		return reply, "score", err

	case loserboardPattern.MatchString(text):
		reply, err := s.game.Loserboard(ctx)
		return reply, "loserboard", err
	}

	return "", "none", nil
}

// handleReset shows the final scores then wipes every score and the
// channel's round state. Non-admins get silence, not an error.
func (s *Server) handleReset(ctx context.Context, cmd domain.Command, logger *slog.Logger) (string, string, error) {
	if _, ok := s.admins[cmd.UserName]; !ok {
		logger.Info("reset denied", "user_name", cmd.UserName)
		return "", "reset", nil
	}

	board, err := s.game.Leaderboard(ctx, true)
	if err != nil {
		return "", "reset", err
	}
	if err := s.game.Reset(ctx, cmd.ChannelID); err != nil {
		return "", "reset", err
	}
	return board + "\n\nStarting a new round of jeopardy", "reset", nil
}

func (s *Server) respond(c echo.Context, text string) error {
	return c.JSON(http.StatusOK, slack.NewResponse(text, s.config.BotUsername, s.config.BotIcon))
}

// parseTimestamp reads the webhook's unix-seconds timestamp, falling back
// to the server clock when the field is missing or malformed.
func (s *Server) parseTimestamp(raw string) float64 {
	if ts, err := strconv.ParseFloat(raw, 64); err == nil {
		return ts
	}
	return float64(s.clock.Now().UnixNano()) / 1e9
}

// answerText strips everything through the answer trigger, leaving the guess.
func answerText(text string) string {
	_, after, _ := strings.Cut(text, "!a ")
	return strings.TrimSpace(after)
}
