package runner

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarth-shah20/ferry/internal/config"
	"github.com/sarth-shah20/ferry/internal/docker"
)

// ContainerManager is what the stack needs from internal/docker.
// *docker.Manager satisfies it.
type ContainerManager interface {
	EnsureNetwork(ctx context.Context, networkName string) error
	EnsureImage(ctx context.Context, imageName string) error
	StartContainer(ctx context.Context, spec docker.ContainerSpec) error
	StopAndRemoveContainer(ctx context.Context, projectName, serviceName string) error
	RemoveNetwork(ctx context.Context, networkName string) error
}

// Stack binds a loaded topology to the docker manager. Up and Down are
// what `ferry up` and `ferry down` run, and what the lifecycle runner
// wraps a timer around.
type Stack struct {
	Config *config.Config
	Env    map[string]string // loaded from env_file, immutable
	Mgr    ContainerManager
}

// Up ensures the project network, pulls registry images, and starts
// every service in dependency order. depends_on governs start order
// only; there is no readiness handshake.
func (s *Stack) Up(ctx context.Context) error {
	order, err := s.Config.StartOrder()
	if err != nil {
		return err
	}

	networkName := docker.NetworkName(s.Config.Name)
	if err := s.Mgr.EnsureNetwork(ctx, networkName); err != nil {
		return err
	}

	for _, name := range order {
		svc := s.Config.Services[name]

		if svc.Pull() {
			if err := s.Mgr.EnsureImage(ctx, svc.ImageName()); err != nil {
				return fmt.Errorf("service %s: %w", name, err)
			}
		}

		err := s.Mgr.StartContainer(ctx, docker.ContainerSpec{
			Project: s.Config.Name,
			Service: name,
			Image:   svc.ImageName(),
			Network: networkName,
			Ports:   svc.Ports,
			Env:     svc.ExpandEnv(s.Env),
			Volumes: svc.Volumes,
		})
		if err != nil {
			return fmt.Errorf("service %s: %w", name, err)
		}
	}

	return nil
}

// Down stops and removes every service in reverse start order, then the
// network. Per-service failures are logged and teardown keeps going;
// the first error is returned at the end.
func (s *Stack) Down(ctx context.Context) error {
	order, err := s.Config.StartOrder()
	if err != nil {
		return err
	}

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		if err := s.Mgr.StopAndRemoveContainer(ctx, s.Config.Name, name); err != nil {
			logrus.WithField("service", name).WithError(err).Error("cleanup failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if err := s.Mgr.RemoveNetwork(ctx, docker.NetworkName(s.Config.Name)); err != nil {
		logrus.WithError(err).Error("failed to remove network")
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
