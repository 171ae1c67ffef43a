package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/chat"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the career-advice assistant",
	Long: `Start an interactive career-advice chat on stdin. History is kept in Redis
when REDIS_URL is set, in PostgreSQL when DATABASE_URL is set, and in memory otherwise.

Type /history to print the conversation and /quit to leave.`,
	RunE: runChat,
}

var chatSessionID string

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Session id to resume (default: a new session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closeService, err := newService(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer closeService()

	var database *db.DB
	if appConfig.RedisURL == "" && appConfig.DatabaseURL != "" {
		database, err = db.Connect(ctx, appConfig.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}
	store, closeHistory, err := openHistory(ctx, appConfig, database, appLogger)
	if err != nil {
		return err
	}
	defer closeHistory()

	id := chatSessionID
	if id == "" {
		id = uuid.NewString()
	}
	sess := chat.NewSession(id, store, newOrchestrator(svc, appConfig, appLogger), chat.WithLogger(appLogger))
	fmt.Fprintf(cmd.OutOrStdout(), "Session %s. Ask anything about your career; /quit to leave.\n", id)
	return chatLoop(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads one message per line until EOF or /quit. A failed reply is
// reported and the loop continues.
func chatLoop(ctx context.Context, sess *chat.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/history":
			turns, err := sess.History(ctx)
			if err != nil {
				return err
			}
			for _, t := range turns {
				fmt.Fprintf(out, "[%s] %s\n", t.Role, t.Content)
			}
			continue
		}

		reply, err := sess.Send(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply.Content)
	}
}
