package sandbox

import (
	"context"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"

	"github.com/streamspace-dev/codesandbox/internal/logger"
)

// Sweeper periodically removes stray exited containers whose names carry
// the sandbox's name prefix. RunDetached's AutoRemove flag already cleans
// up the normal path; the sweeper is defensive cleanup only, covering
// process restarts that stranded a container before AutoRemove could fire.
type Sweeper struct {
	cli      *DockerEngine
	interval time.Duration
}

// NewSweeper returns a Sweeper that checks for stray containers every interval.
func NewSweeper(engine *DockerEngine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{cli: engine, interval: interval}
}

// Run blocks, sweeping on each tick until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	log := logger.Sandbox()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweepOnce(ctx); err != nil {
				log.Warn().Err(err).Msg("sandbox sweep failed")
			}
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) error {
	log := logger.Sandbox()

	f := filters.NewArgs()
	f.Add("status", "exited")
	f.Add("label", "component=sandbox-run")

	containers, err := s.cli.cli.ContainerList(ctx, types.ContainerListOptions{All: true, Filters: f})
	if err != nil {
		return err
	}

	for _, c := range containers {
		if !hasNamePrefix(c.Names, containerNamePrefix) {
			continue
		}
		if rmErr := s.cli.cli.ContainerRemove(ctx, c.ID, types.ContainerRemoveOptions{Force: true}); rmErr != nil {
			log.Warn().Err(rmErr).Str("container", c.ID).Msg("sweeper failed to remove stray container")
			continue
		}
		log.Info().Str("container", c.ID).Msg("sweeper removed stray sandbox container")
	}
	return nil
}

func hasNamePrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(strings.TrimPrefix(n, "/"), prefix) {
			return true
		}
	}
	return false
}
