package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/move"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultAttempts       = 3
)

var ErrBotError = errors.New("bot returned an error")

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string

	Timeout  time.Duration
	Attempts uint
}

func NewClient(url, channel string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, channel: channel, Timeout: DefaultRequestTimeout,
		Attempts: DefaultAttempts}, nil
}

func (c *Client) Close() { c.nc.Close() }

// RequestMove sends a position to the bot and returns its answer. The move
// is the zero Move with pass set when the bot found nothing to play.
// Timeouts are retried with backoff.
func (c *Client) RequestMove(ctx context.Context, req Request) (move.Move, Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return move.Move{}, Response{}, err
	}
	res, err := retry.DoWithData(
		func() (*nats.Msg, error) {
			rctx, cancel := context.WithTimeout(ctx, c.Timeout)
			defer cancel()
			return c.nc.RequestWithContext(rctx, c.channel, data)
		},
		retry.Context(ctx),
		retry.Attempts(c.Attempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("did-not-receive-answer-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return move.Move{}, Response{}, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))

	return decodeResponse(res.Data)
}

func decodeResponse(data []byte) (move.Move, Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return move.Move{}, Response{}, err
	}
	if resp.Error != "" {
		return move.Move{}, resp, errors.Join(ErrBotError, errors.New(resp.Error))
	}
	if resp.Pass {
		return move.Move{}, resp, nil
	}
	m, err := move.Parse(resp.Move)
	return m, resp, err
}
