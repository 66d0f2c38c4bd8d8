package automatic

// Data collection for computer vs computer games.

import (
	"bufio"
	"context"
	"errors"
	"expvar"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/blobwars/blobwars/stats"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// playing is held for the whole of one StartCompVCompGames call.
var playing atomic.Bool

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

type Job struct {
	idx int
}

// StartCompVCompGames plays numGames games of the matchup on threads
// workers, writing one CSV line per turn to outputFilename. The first move
// alternates between the engines from game to game.
func StartCompVCompGames(ctx context.Context, m Matchup, numGames, threads int,
	outputFilename string) (*Results, error) {

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if threads < 1 {
		threads = 1
	}
	if !playing.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer playing.Store(false)

	logfile, err := os.Create(outputFilename)
	if err != nil {
		return nil, err
	}
	defer logfile.Close()
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	CVCCounter.Set(0)
	jobs := make(chan Job, 100)
	logChan := make(chan string, 100)
	results := newResults(m)
	summaries := [2]*stats.SearchSummary{results.Searches[0], results.Searches[1]}

	runners := make([]*GameRunner, threads)
	for i := range runners {
		runners[i], err = NewGameRunner(logChan, m, summaries)
		if err != nil {
			return nil, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case jobs <- Job{idx: i}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for _, r := range runners {
		r := r
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				res, err := r.PlayGame(gctx, j.idx%2 == 1)
				if err != nil {
					return err
				}
				results.add(res)
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	writerDone := make(chan error, 1)
	go func() {
		w := bufio.NewWriter(logfile)
		_, err := w.WriteString(CSVHeader)
		for line := range logChan {
			if err == nil {
				_, err = w.WriteString(line)
			}
		}
		if err == nil {
			err = w.Flush()
		}
		writerDone <- err
	}()

	err = g.Wait()
	close(logChan)
	if werr := <-writerDone; err == nil {
		err = werr
	}
	log.Info().Int("games", results.Games()).Msg("comp-v-comp-done")
	return results, err
}
