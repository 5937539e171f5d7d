// Package persist sends finished note positions to the backend.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinizap/pinnotes/domain"
)

// ActionSavePosition is the ajax action name understood by the backend.
const ActionSavePosition = "save_position"

var (
	// ErrTransport means the request never produced a response.
	ErrTransport = errors.New("save request failed")
	// ErrRejected means the backend answered without success.
	ErrRejected = errors.New("save rejected")
)

// Client saves positions for one page session.
type Client struct {
	session domain.Session
	token   string
	http    *http.Client
	timeout time.Duration
	logger  zerolog.Logger

	wg sync.WaitGroup
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// WithToken sets the auth token sent with every request.
func WithToken(token string) Option { return func(cl *Client) { cl.token = token } }

func WithTimeout(d time.Duration) Option { return func(cl *Client) { cl.timeout = d } }

func WithLogger(l zerolog.Logger) Option { return func(cl *Client) { cl.logger = l } }

func New(session domain.Session, opts ...Option) *Client {
	c := &Client{
		session: session,
		http:    http.DefaultClient,
		timeout: 10 * time.Second,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save posts the position and reports the outcome.
func (c *Client) Save(ctx context.Context, noteID int64, cx, cy float64) error {
	form := url.Values{}
	form.Set("action", ActionSavePosition)
	form.Set("nonce", c.session.Nonce)
	form.Set("id", strconv.FormatInt(noteID, 10))
	form.Set("cx", strconv.FormatFloat(cx, 'f', -1, 64))
	form.Set("cy", strconv.FormatFloat(cy, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.session.AjaxURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(domain.TokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var body domain.SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: status %d: undecodable body: %v", ErrRejected, resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 || !body.Success {
		return fmt.Errorf("%w: status %d: %v", ErrRejected, resp.StatusCode, body.Data)
	}
	return nil
}

// SavePosition saves in the background. Rejections are logged as errors;
// transport failures only at debug level. Nothing is retried.
func (c *Client) SavePosition(noteID int64, cx, cy float64) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		err := c.Save(ctx, noteID, cx, cy)
		switch {
		case err == nil:
			c.logger.Debug().Int64("note", noteID).Float64("cx", cx).Float64("cy", cy).Msg("position saved")
		case errors.Is(err, ErrTransport):
			c.logger.Debug().Err(err).Int64("note", noteID).Msg("position not saved")
		default:
			c.logger.Error().Err(err).Int64("note", noteID).Msg("save failed")
		}
	}()
}

// Wait blocks until every background save has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}
