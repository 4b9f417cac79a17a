// Package service installs beszeltrmnl as a system service and talks to
// systemd while it runs.
package service

import (
	"fmt"
	"os"
	"runtime"

	"github.com/okzk/sdnotify"
	"github.com/takama/daemon"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/logger"
)

// Service wraps takama/daemon for cross-platform service management
type Service struct {
	daemon daemon.Daemon
}

// New creates a new Service instance. Root gets a system daemon, everyone
// else a user agent.
func New() (*Service, error) {
	kind := daemon.UserAgent
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		kind = daemon.SystemDaemon
	}

	d, err := daemon.New(constants.BINARY_NAME, constants.SERVICE_DESCRIPTION, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon: %w", err)
	}

	return &Service{daemon: d}, nil
}

// Install installs the service so that it runs "serve".
// takama/daemon determines the executable path itself.
func (s *Service) Install() (string, error) {
	status, err := s.daemon.Install("serve")
	if err != nil {
		return status, err
	}

	logger.Info("Service installed: %s", status)
	return status, nil
}

// Remove removes the service
func (s *Service) Remove() (string, error) {
	status, err := s.daemon.Remove()
	if err != nil {
		return status, err
	}

	logger.Info("Service removed: %s", status)
	return status, nil
}

// Start starts the service
func (s *Service) Start() (string, error) {
	status, err := s.daemon.Start()
	if err != nil {
		return status, err
	}

	logger.Info("Service started: %s", status)
	return status, nil
}

// Stop stops the service
func (s *Service) Stop() (string, error) {
	status, err := s.daemon.Stop()
	if err != nil {
		return status, err
	}

	logger.Info("Service stopped: %s", status)
	return status, nil
}

// Status returns the service status
func (s *Service) Status() (string, error) {
	return s.daemon.Status()
}

// NotifyReady notifies systemd that the listener is up (Type=notify)
func NotifyReady() {
	if runtime.GOOS == "linux" {
		if err := sdnotify.Ready(); err == nil {
			logger.Debug("Sent READY notification to systemd")
		}
	}
}

// NotifyStopping notifies systemd that service is stopping
func NotifyStopping() {
	if runtime.GOOS == "linux" {
		if err := sdnotify.Stopping(); err == nil {
			logger.Debug("Sent STOPPING notification to systemd")
		}
	}
}

// NotifyStatus sends status message to systemd
func NotifyStatus(status string) {
	if runtime.GOOS == "linux" {
		_ = sdnotify.Status(status)
	}
}
