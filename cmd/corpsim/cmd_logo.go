package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/imagegen"
	"github.com/nvandessel/corpsim/internal/sanitize"
	"github.com/nvandessel/corpsim/internal/session"
)

func newLogoCmd() *cobra.Command {
	var service, description string

	cmd := &cobra.Command{
		Use:   "logo [topic]",
		Short: "Generate a logo for a service",
		Long: `Write a logo prompt and render it with the configured image model.

Either name the service directly or give a topic to onboard a company first.
Requires REPLICATE_API_TOKEN (or image.provider and image.api_token).

Examples:
  corpsim logo --service "Groomly" --description "Booking for pet groomers"
  corpsim logo "pet grooming"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service = sanitize.Name(service)
			if service == "" && len(args) == 0 {
				return errors.New("give a topic or --service")
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.images == nil {
				return fmt.Errorf("%w: set REPLICATE_API_TOKEN or image.provider", session.ErrNoImageGenerator)
			}

			var res *imagegen.LogoResult
			if service != "" {
				res, err = imagegen.Logo(ctx, a.gen, a.images, service, sanitize.Description(description))
			} else {
				if _, err = a.session.Onboard(ctx, strings.Join(args, " ")); err != nil {
					return err
				}
				res, err = a.session.Logo(ctx)
			}
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prompt: %s\n", res.Prompt)
			fmt.Fprintf(out, "Logo:   %s\n", res.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service name")
	cmd.Flags().StringVar(&description, "description", "", "Service description")
	return cmd
}
