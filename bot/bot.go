// Package bot serves the engine over NATS request/reply. Requests and
// responses are JSON; Handle is independent of the transport.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/config"
	"github.com/blobwars/blobwars/equity"
	"github.com/blobwars/blobwars/game"
	"github.com/blobwars/blobwars/minimax"
	"github.com/blobwars/blobwars/rules"
)

// MaxCachedAnswers bounds the answer cache. It is emptied when full.
const MaxCachedAnswers = 1 << 14

// Request asks for the best move in a position given in compact notation,
// a for the computer and b for the human. The engine moves the computer's
// pieces, or the human's when Swap is set. A zero Depth means the bot's
// configured default.
type Request struct {
	Position string `json:"position"`
	Depth    int    `json:"depth,omitempty"`
	TimeMode bool   `json:"time_mode,omitempty"`
	Prune    bool   `json:"prune,omitempty"`
	Swap     bool   `json:"swap,omitempty"`
}

type Response struct {
	Move      string `json:"move,omitempty"`
	Pass      bool   `json:"pass,omitempty"`
	Value     int    `json:"value"`
	Depth     int    `json:"depth"`
	Nodes     int    `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

type Bot struct {
	config    *config.Config
	evaluator equity.Evaluator

	mu        sync.Mutex
	answers   map[uint64]Response
	cacheHits atomic.Int64
}

func NewBot(cfg *config.Config) (*Bot, error) {
	ev, err := cfg.Evaluator()
	if err != nil {
		return nil, err
	}
	return &Bot{
		config:    cfg,
		evaluator: ev,
		answers:   make(map[uint64]Response),
	}, nil
}

func (bot *Bot) CacheHits() int64 { return bot.cacheHits.Load() }

func errorResponse(message string, err error) Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return Response{Error: msg}
}

// Handle answers one serialized request with a serialized response.
func (bot *Bot) Handle(ctx context.Context, data []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(data, &req); err != nil {
		resp = errorResponse("could not parse request", err)
	} else {
		resp = bot.Answer(ctx, req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen for this struct.
		return []byte(`{"error":"could not serialize response"}`)
	}
	return out
}

func (bot *Bot) params(req Request) minimax.Params {
	p := bot.config.SearchParams()
	if req.Depth != 0 {
		p.Restriction = req.Depth
		p.TimeBounded = req.TimeMode
		p.Prune = req.Prune
	}
	return p
}

// Answer runs the engine for req. Fixed-depth answers are cached by the
// request contents.
func (bot *Bot) Answer(ctx context.Context, req Request) Response {
	params := bot.params(req)
	var key uint64
	cacheable := !params.TimeBounded
	if cacheable {
		norm, _ := json.Marshal(struct {
			Request
			Params minimax.Params
		}{req, params})
		key = xxhash.Sum64(norm)
		bot.mu.Lock()
		cached, ok := bot.answers[key]
		bot.mu.Unlock()
		if ok {
			bot.cacheHits.Add(1)
			return cached
		}
	}

	g, err := game.FromPosition(req.Position, game.Computer)
	if err != nil {
		return errorResponse("bad position", err)
	}
	solver := minimax.NewSolver(params, rules.Standard{}, bot.evaluator)
	res, err := solver.Solve(ctx, g.Compact(req.Swap))
	if err != nil {
		return errorResponse("search failed", err)
	}
	resp := Response{
		Pass:      !res.HasMove,
		Value:     res.Value,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	if res.HasMove {
		resp.Move = res.Move.ShortDescription()
	}
	if cacheable {
		bot.mu.Lock()
		if len(bot.answers) >= MaxCachedAnswers {
			bot.answers = make(map[uint64]Response)
		}
		bot.answers[key] = resp
		bot.mu.Unlock()
	}
	return resp
}

// Main answers requests on channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()
	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		if err := m.Respond(bot.Handle(ctx, m.Data)); err != nil {
			log.Err(err).Msg("bot-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}

	log.Info().Msgf("Listening on [%s]", channel)
	<-ctx.Done()
	return nc.Drain()
}
