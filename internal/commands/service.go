package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"beszeltrmnl/internal/service"
	"beszeltrmnl/internal/ui"
)

// serviceController is the part of service.Service the commands drive.
type serviceController interface {
	Install() (string, error)
	Remove() (string, error)
	Start() (string, error)
	Stop() (string, error)
	Status() (string, error)
}

var newService = func() (serviceController, error) {
	return service.New()
}

// NewServiceCmd creates the service command with subcommands
func NewServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the beszeltrmnl system service",
		Long: `Run beszeltrmnl as a background service (systemd on Linux, launchd on macOS).

The installed unit runs "beszeltrmnl serve" from the directory the service
manager chooses, so put configuration in the environment of the unit or
store the password with "beszeltrmnl auth login".

Examples:
  beszeltrmnl service install   # Install and enable the service
  beszeltrmnl service start     # Start the service
  beszeltrmnl service stop      # Stop the service
  beszeltrmnl service status    # Check service status
  beszeltrmnl service remove    # Remove the service`,
	}

	cmd.AddCommand(newServiceActionCmd("install", "Install as a system service", "Installing Service", func(s serviceController) (string, error) {
		return s.Install()
	}))
	cmd.AddCommand(newServiceActionCmd("remove", "Remove the system service", "Removing Service", func(s serviceController) (string, error) {
		_, _ = s.Stop()
		return s.Remove()
	}))
	cmd.AddCommand(newServiceActionCmd("start", "Start the service", "Starting Service", func(s serviceController) (string, error) {
		return s.Start()
	}))
	cmd.AddCommand(newServiceActionCmd("stop", "Stop the service", "Stopping Service", func(s serviceController) (string, error) {
		return s.Stop()
	}))
	cmd.AddCommand(newServiceActionCmd("restart", "Restart the service", "Restarting Service", func(s serviceController) (string, error) {
		_, _ = s.Stop()
		return s.Start()
	}))
	cmd.AddCommand(newServiceActionCmd("status", "Check service status", "Service Status", func(s serviceController) (string, error) {
		return s.Status()
	}))

	return cmd
}

func newServiceActionCmd(use, short, title string, action func(serviceController) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceAction(cmd.OutOrStdout(), title, action)
		},
	}
}

func runServiceAction(w io.Writer, title string, action func(serviceController) (string, error)) error {
	fmt.Fprintln(w, ui.RenderSectionStart(title))
	defer fmt.Fprintln(w, ui.RenderSectionEnd())

	svc, err := newService()
	if err != nil {
		fmt.Fprintln(w, ui.RenderStatus("error", fmt.Sprintf("Failed to create service: %v", err)))
		return err
	}

	status, err := action(svc)
	if err != nil {
		fmt.Fprintln(w, ui.RenderStatus("error", err.Error()))
		if status != "" {
			fmt.Fprintln(w, ui.RenderStatus("info", status))
		}
		return err
	}
	fmt.Fprintln(w, ui.RenderStatus("success", status))
	return nil
}
