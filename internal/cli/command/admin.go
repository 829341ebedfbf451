package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rambotech/dropzone-go/internal/cli/connection"
	"github.com/rambotech/dropzone-go/internal/cli/output"
)

// AdminCommand returns the admin subcommand group. These operations
// authenticate with the admin token.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Server administration",
		Subcommands: []*cli.Command{
			{
				Name:   "securityinfo",
				Usage:  "Show access-watch entries per caller address",
				Action: securityInfo,
			},
			{
				Name:      "clear",
				Usage:     "Clear a zone's payloads, references, and statistics",
				ArgsUsage: "ZONE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: adminClear,
			},
			{
				Name:  "reset",
				Usage: "Reset the server: drop all zones and watch entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: adminReset,
			},
			{
				Name:   "shutdown",
				Usage:  "Request a graceful server shutdown",
				Action: adminShutdown,
			},
		},
	}
}

type watchEntry struct {
	Address       string    `json:"address"`
	TotalSuccess  int64     `json:"total_success"`
	TotalFailed   int64     `json:"total_failed"`
	FirstAttempt  time.Time `json:"first_attempt"`
	LatestAttempt time.Time `json:"latest_attempt"`
}

func securityInfo(c *cli.Context) error {
	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.AdminGet(ctx, "/api/securityinfo")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var entries []watchEntry
	if err := connection.ParseResponse(resp, &entries); err != nil {
		return err
	}

	if output.Format(c.String("output")) != output.FormatTable {
		return formatter(c).Format(os.Stdout, entries)
	}

	table := &output.Table{
		Headers: []string{"ADDRESS", "SUCCESS", "FAILED", "FIRST", "LATEST"},
	}
	for _, e := range entries {
		table.AddRow(
			e.Address,
			strconv.FormatInt(e.TotalSuccess, 10),
			strconv.FormatInt(e.TotalFailed, 10),
			output.Cell(e.FirstAttempt),
			output.Cell(e.LatestAttempt),
		)
	}
	return table.Render(os.Stdout)
}

func adminClear(c *cli.Context) error {
	zone := c.Args().First()
	if zone == "" {
		return fmt.Errorf("zone name required")
	}

	if !c.Bool("force") {
		fmt.Printf("This will discard everything in zone '%s'. [y/N]: ", zone)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.AdminDelete(ctx, "/api/clear/"+url.PathEscape(zone))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Zone '%s' cleared.\n", zone)
	return nil
}

func adminReset(c *cli.Context) error {
	if !c.Bool("force") {
		fmt.Print("This will drop every zone on the server. Type 'reset' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "reset" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.AdminPost(ctx, "/api/reset", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Println("Server reset.")
	return nil
}

func adminShutdown(c *cli.Context) error {
	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.AdminPost(ctx, "/api/shutdown", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Println("Shutdown requested.")
	return nil
}
