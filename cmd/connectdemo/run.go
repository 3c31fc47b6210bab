package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/connect/pkg/host"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dispatch a scripted sequence of actions",
		Long: `Mount the counter application, dispatch a fixed sequence of actions
and print the rendered HTML after each one, together with how many
component renders it caused and how many were skipped.

Examples:
  connectdemo run
  connectdemo run --pretty=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			d := newDemo(cmd.Context(), cfg, slog.Default())
			return runScript(d, pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", true, "Indent the printed HTML")

	return cmd
}

func runScript(d *demo, pretty bool) error {
	if err := d.mount(); err != nil {
		return err
	}
	defer d.unmount()

	html, err := d.html(pretty)
	if err != nil {
		return err
	}
	success("Mounted")
	fmt.Println(html)

	for _, action := range script {
		before := d.root.Stats()
		d.store.Dispatch(action)
		if err := d.root.Err(); err != nil {
			return err
		}
		after := d.root.Stats()

		html, err := d.html(pretty)
		if err != nil {
			return err
		}
		success("%s %v", action.Type, payloadText(action.Payload))
		info("renders: %d, skipped: %d", after.Renders-before.Renders, skipped(before, after))
		fmt.Println(html)
	}
	return nil
}

func skipped(before, after host.Stats) int {
	return (after.Bailouts - before.Bailouts) + (after.Vetoed - before.Vetoed)
}

func payloadText(payload any) string {
	if payload == nil {
		return ""
	}
	return fmt.Sprintf("(%v)", payload)
}
