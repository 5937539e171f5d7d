// Command pinboard shows the notes of a page in the terminal and lets their
// owner drag them around with the mouse. Positions are saved to the server
// exactly like the browser overlay does.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinizap/pinnotes/domain"
	"github.com/vinizap/pinnotes/overlay"
	"github.com/vinizap/pinnotes/persist"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	server  string
	page    int64
	token   string
	logFile string
}

func rootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "pinboard",
		Short:        "Drag the sticky notes of a page from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.token == "" {
				opts.token = os.Getenv("PIN_TOKEN")
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "pinnotes server URL")
	cmd.Flags().Int64Var(&opts.page, "page", 0, "page whose notes to show")
	cmd.Flags().StringVar(&opts.token, "token", "", "auth token <id>.<secret> (default $PIN_TOKEN)")
	cmd.Flags().StringVar(&opts.logFile, "log", "", "write debug logs to this file")
	cmd.MarkFlagRequired("page")

	return cmd
}

func run(ctx context.Context, opts options) error {
	logger := zerolog.Nop()
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = zerolog.New(f).With().Timestamp().Logger()
	}

	payload, err := fetchPayload(ctx, opts.server, opts.page, opts.token)
	if err != nil {
		return err
	}
	logger.Info().Int("notes", len(payload.Notes)).Int64("uid", payload.Session.UID).Msg("payload loaded")

	client := persist.New(payload.Session,
		persist.WithToken(opts.token),
		persist.WithLogger(logger))
	defer client.Wait()

	vp := &termViewport{}
	engine := overlay.New(payload, vp,
		overlay.WithSaver(client),
		overlay.WithLogger(logger))
	defer engine.Close()

	p := tea.NewProgram(newModel(engine, vp, opts.page),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}

func fetchPayload(ctx context.Context, server string, page int64, token string) (domain.Payload, error) {
	var payload domain.Payload

	endpoint, err := url.JoinPath(server, "api", "pages", fmt.Sprint(page), "notes")
	if err != nil {
		return payload, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return payload, err
	}
	if token != "" {
		req.Header.Set(domain.TokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return payload, fmt.Errorf("fetch notes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return payload, fmt.Errorf("fetch notes: %s: %s", resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode notes: %w", err)
	}
	return payload, nil
}
