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

// zoneStats mirrors the server's zone statistics payload.
type zoneStats struct {
	Name   string `json:"name"`
	Limits struct {
		MaxPayloadCount   int64 `json:"max_payload_count"`
		MaxPayloadSize    int64 `json:"max_payload_size"`
		MaxReferenceCount int64 `json:"max_reference_count"`
		MaxReferenceSize  int64 `json:"max_reference_size"`
	} `json:"limits"`
	PayloadCount     int64     `json:"payload_count"`
	PayloadSize      int64     `json:"payload_size"`
	ReferenceCount   int64     `json:"reference_count"`
	ReferenceSize    int64     `json:"reference_size"`
	DeniedDropoffs   int64     `json:"denied_dropoffs"`
	DeniedReferences int64     `json:"denied_references"`
	LastDropoff      time.Time `json:"last_dropoff"`
	LastPickup       time.Time `json:"last_pickup"`
}

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Show zone statistics",
		ArgsUsage: "[ZONE]",
		Description: "Shows statistics for the named zone, or for every active zone\n" +
			"when no zone is given.",
		Action: stats,
	}
}

// LimitsCommand returns the limits command.
func LimitsCommand() *cli.Command {
	return &cli.Command{
		Name:      "limits",
		Usage:     "Update a zone's quota limits",
		ArgsUsage: "ZONE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "max-payload-count",
				Usage: "Maximum queued payloads",
			},
			&cli.Int64Flag{
				Name:  "max-payload-size",
				Usage: "Maximum total payload bytes",
			},
			&cli.Int64Flag{
				Name:  "max-reference-count",
				Usage: "Maximum reference entries",
			},
			&cli.Int64Flag{
				Name:  "max-reference-size",
				Usage: "Maximum total reference bytes",
			},
		},
		Action: setLimits,
	}
}

func stats(c *cli.Context) error {
	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if zone := c.Args().First(); zone != "" {
		resp, err := client.Get(ctx, "/api/statistics/"+url.PathEscape(zone))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		var result zoneStats
		if err := connection.ParseResponse(resp, &result); err != nil {
			return err
		}
		return outputStats(c, []zoneStats{result})
	}

	resp, err := client.Get(ctx, "/api/statistics")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var result []zoneStats
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return outputStats(c, result)
}

func outputStats(c *cli.Context, zones []zoneStats) error {
	if output.Format(c.String("output")) != output.FormatTable {
		return formatter(c).Format(os.Stdout, zones)
	}

	table := &output.Table{
		Headers: []string{"ZONE", "PAYLOADS", "BYTES", "REFERENCES", "DENIED", "LAST DROPOFF", "LAST PICKUP"},
	}
	for _, z := range zones {
		table.AddRow(
			z.Name,
			strconv.FormatInt(z.PayloadCount, 10),
			strconv.FormatInt(z.PayloadSize, 10),
			strconv.FormatInt(z.ReferenceCount, 10),
			strconv.FormatInt(z.DeniedDropoffs+z.DeniedReferences, 10),
			output.Cell(z.LastDropoff),
			output.Cell(z.LastPickup),
		)
	}
	return table.Render(os.Stdout)
}

func setLimits(c *cli.Context) error {
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

	body := map[string]int64{
		"max_payload_count":   c.Int64("max-payload-count"),
		"max_payload_size":    c.Int64("max-payload-size"),
		"max_reference_count": c.Int64("max-reference-count"),
		"max_reference_size":  c.Int64("max-reference-size"),
	}

	resp, err := client.PostJSON(ctx, "/api/metrics/"+url.PathEscape(zone), body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return err
	}

	fmt.Printf("Limits updated for zone '%s'.\n", zone)
	return nil
}
