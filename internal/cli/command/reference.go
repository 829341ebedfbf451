package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rambotech/dropzone-go/internal/cli/connection"
	"github.com/rambotech/dropzone-go/internal/cli/output"
)

// ReferenceCommand returns the reference subcommand group.
func ReferenceCommand() *cli.Command {
	return &cli.Command{
		Name:    "reference",
		Aliases: []string{"ref"},
		Usage:   "Manage zone key/value references",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set a reference value",
				ArgsUsage: "ZONE KEY VALUE",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Reference lifetime; omit for no expiry",
					},
				},
				Action: referenceSet,
			},
			{
				Name:      "get",
				Usage:     "Get a reference value",
				ArgsUsage: "ZONE KEY",
				Action:    referenceGet,
			},
			{
				Name:      "drop",
				Usage:     "Drop a reference",
				ArgsUsage: "ZONE KEY",
				Action:    referenceDrop,
			},
			{
				Name:      "list",
				Usage:     "List reference keys in a zone",
				ArgsUsage: "ZONE",
				Action:    referenceList,
			},
		},
	}
}

func referencePath(op, zone, key string) string {
	p := "/api/reference/" + op + "/" + url.PathEscape(zone)
	if key != "" {
		p += "/" + url.PathEscape(key)
	}
	return p
}

func referenceSet(c *cli.Context) error {
	zone, key, value := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
	if zone == "" || key == "" {
		return fmt.Errorf("zone and key required")
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	path := referencePath("set", zone, key)
	if ttl := c.Duration("ttl"); ttl > 0 {
		path += "?expires_on=" + url.QueryEscape(time.Now().Add(ttl).Format(time.RFC3339))
	}

	resp, err := client.Post(ctx, path, value)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Reference '%s' set in zone '%s'.\n", key, zone)
	return nil
}

func referenceGet(c *cli.Context) error {
	zone, key := c.Args().Get(0), c.Args().Get(1)
	if zone == "" || key == "" {
		return fmt.Errorf("zone and key required")
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Get(ctx, referencePath("get", zone, key))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Println(result.Value)
	return nil
}

func referenceDrop(c *cli.Context) error {
	zone, key := c.Args().Get(0), c.Args().Get(1)
	if zone == "" || key == "" {
		return fmt.Errorf("zone and key required")
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Delete(ctx, referencePath("drop", zone, key))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Reference '%s' dropped from zone '%s'.\n", key, zone)
	return nil
}

func referenceList(c *cli.Context) error {
	zone := c.Args().First()
	if zone == "" {
		return fmt.Errorf("zone name required")
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := client.Get(ctx, referencePath("list", zone, ""))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Keys []string `json:"keys"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if output.Format(c.String("output")) != output.FormatTable {
		return formatter(c).Format(os.Stdout, result)
	}

	table := &output.Table{Headers: []string{"KEY"}}
	for _, k := range result.Keys {
		table.AddRow(k)
	}
	if err := table.Render(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d references\n", len(result.Keys))
	return nil
}
