package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"

	"github.com/docker/docker/api/types/network"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"

	"github.com/docker/docker/api/types/filters"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// APIClient is the subset of the Docker SDK client the manager uses.
// Extracted as an interface so tests can run against a fake daemon.
// When you need more methods from client.Client, add them here.
type APIClient interface {
	ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error)
	NetworkList(ctx context.Context, options types.NetworkListOptions) ([]types.NetworkResource, error)
	NetworkCreate(ctx context.Context, name string, options types.NetworkCreate) (types.NetworkCreateResponse, error)
	NetworkRemove(ctx context.Context, networkID string) error
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
}

// ContainerSpec describes one container to create and start.
type ContainerSpec struct {
	Project string   // project name, used for naming and labels
	Service string   // service name within the project, e.g. "postgres"
	Image   string   // e.g. "postgres:14"
	Network string   // project network to join
	Ports   []string // host:container mappings
	Env     []string // NAME=value, already expanded
	Volumes []string // bind specs
}

// Manager handles all interactions with the Docker Daemon
type Manager struct {
	cli APIClient
	log *logrus.Logger
}

// NewManager creates a new Docker client connected to the local daemon
func NewManager() (*Manager, error) {
	// FromEnv looks for standard env vars like DOCKER_HOST,
	// or defaults to the unix socket /var/run/docker.sock
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Manager{cli: cli, log: logrus.StandardLogger()}, nil
}

// NewManagerWithClient wires a manager to an existing client. Used by tests.
func NewManagerWithClient(cli APIClient) *Manager {
	return &Manager{cli: cli, log: logrus.StandardLogger()}
}

// ContainerName is the canonical name for a service's container.
func ContainerName(project, service string) string {
	return fmt.Sprintf("ferry-%s-%s", project, service)
}

// NetworkName is the canonical name for a project's bridge network.
func NetworkName(project string) string {
	return fmt.Sprintf("ferry-%s", project)
}

// EnsureImage checks that an image is present by pulling it.
func (m *Manager) EnsureImage(ctx context.Context, imageName string) error {
	m.log.WithField("image", imageName).Info("pulling image")

	reader, err := m.cli.ImagePull(ctx, imageName, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer reader.Close()

	// The pull only completes once the progress stream is drained;
	// closing early can cancel the download.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("error reading pull output: %w", err)
	}

	return nil
}

// EnsureNetwork creates a bridge network for the project if it doesn't exist.
func (m *Manager) EnsureNetwork(ctx context.Context, networkName string) error {
	networks, err := m.cli.NetworkList(ctx, types.NetworkListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}

	for _, net := range networks {
		if net.Name == networkName {
			m.log.WithField("network", networkName).Debug("network already exists")
			return nil
		}
	}

	m.log.WithField("network", networkName).Info("creating network")
	_, err = m.cli.NetworkCreate(ctx, networkName, types.NetworkCreate{
		Driver: "bridge",
	})
	if err != nil {
		return fmt.Errorf("failed to create network %s: %w", networkName, err)
	}

	return nil
}

// StartContainer creates and starts a container from the spec. An existing
// container with the same name is removed first.
func (m *Manager) StartContainer(ctx context.Context, spec ContainerSpec) error {
	containerName := ContainerName(spec.Project, spec.Service)

	// 1. Configure port mappings (host -> container)
	portBindings := nat.PortMap{}
	exposedPorts := nat.PortSet{}

	for _, portMapping := range spec.Ports {
		// nat.ParsePortSpec parses "8080:80" into structs.
		// It returns a list, but we usually just have one mapping per string.
		mappings, err := nat.ParsePortSpec(portMapping)
		if err != nil {
			return fmt.Errorf("invalid port mapping %s: %w", portMapping, err)
		}

		for _, pm := range mappings {
			port := pm.Port
			exposedPorts[port] = struct{}{}
			portBindings[port] = []nat.PortBinding{
				{
					HostIP:   "0.0.0.0",
					HostPort: pm.Binding.HostPort,
				},
			}
		}
	}

	// 2. Define the container config (inside)
	config := &container.Config{
		Image: spec.Image,

		Labels: map[string]string{
			"ferry.project": spec.Project,
			"ferry.service": spec.Service,
			"ferry.managed": "true",
		},

		ExposedPorts: exposedPorts,
		Env:          spec.Env,
	}

	// 3. Define the host config (outside)
	hostConfig := &container.HostConfig{
		PortBindings: portBindings,
		Binds:        spec.Volumes,
	}

	// 4. Define network config
	networkConfig := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{
			spec.Network: {},
		},
	}

	// 5. Create the container. A leftover from a previous run would make
	// the name collide, so remove it first; it may legitimately not exist.
	m.log.WithField("container", containerName).Info("creating container")
	_ = m.cli.ContainerRemove(ctx, containerName, container.RemoveOptions{Force: true})

	resp, err := m.cli.ContainerCreate(ctx, config, hostConfig, networkConfig, nil, containerName)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	// 6. Start the container
	m.log.WithField("container", containerName).Info("starting container")
	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}

	return nil
}

// ListContainers returns the containers belonging to a ferry project
func (m *Manager) ListContainers(ctx context.Context, projectName string) ([]types.Container, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("label", fmt.Sprintf("ferry.project=%s", projectName))

	return m.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
}

// StopAndRemoveContainer stops and deletes a container
func (m *Manager) StopAndRemoveContainer(ctx context.Context, projectName, serviceName string) error {
	containerName := ContainerName(projectName, serviceName)

	m.log.WithField("container", containerName).Info("stopping container")

	// nil timeout means the daemon default (10 seconds) before SIGKILL
	if err := m.cli.ContainerStop(ctx, containerName, container.StopOptions{}); err != nil {
		// Already stopped or missing; removal below is what matters
		m.log.WithField("container", containerName).WithError(err).Warn("failed to stop container")
	}

	m.log.WithField("container", containerName).Info("removing container")
	if err := m.cli.ContainerRemove(ctx, containerName, container.RemoveOptions{
		RemoveVolumes: false, // Keep the data!
		Force:         true,
	}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", containerName, err)
	}

	return nil
}

// RemoveNetwork deletes the project network
func (m *Manager) RemoveNetwork(ctx context.Context, networkName string) error {
	m.log.WithField("network", networkName).Info("removing network")
	return m.cli.NetworkRemove(ctx, networkName)
}
