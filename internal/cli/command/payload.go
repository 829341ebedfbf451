package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rambotech/dropzone-go/internal/cli/connection"
	"github.com/rambotech/dropzone-go/pkg/envelope"
)

const requestTimeout = 30 * time.Second

// DropoffCommand returns the dropoff command.
func DropoffCommand() *cli.Command {
	return &cli.Command{
		Name:      "dropoff",
		Usage:     "Drop a payload into a zone",
		ArgsUsage: "ZONE [PAYLOAD]",
		Description: "Drops a payload into the zone's queue. The payload is read from\n" +
			"the second argument, or from stdin when omitted.",
		Flags: append(payloadFlags(),
			&cli.StringFlag{
				Name:    "recipient",
				Aliases: []string{"r"},
				Usage:   "Recipient the payload is addressed to",
			},
			&cli.StringFlag{
				Name:  "tracking",
				Usage: "Caller-chosen tracking number",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Payload lifetime (e.g., 10m, 2h); omit for the zone default",
			},
		),
		Action: dropoff,
	}
}

// PickupCommand returns the pickup command.
func PickupCommand() *cli.Command {
	return &cli.Command{
		Name:      "pickup",
		Usage:     "Pick up the next payload from a zone",
		ArgsUsage: "ZONE",
		Flags: append(payloadFlags(),
			&cli.StringFlag{
				Name:    "recipient",
				Aliases: []string{"r"},
				Usage:   "Recipient to pick up for",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print the stored content without unwrapping the envelope",
			},
		),
		Action: pickup,
	}
}

// InquiryCommand returns the inquiry command.
func InquiryCommand() *cli.Command {
	return &cli.Command{
		Name:      "inquiry",
		Usage:     "Check whether a tracked payload is still waiting",
		ArgsUsage: "ZONE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tracking",
				Usage:    "Tracking number to look up",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "recipient",
				Aliases: []string{"r"},
				Usage:   "Recipient the payload was addressed to",
			},
			&cli.DurationFlag{
				Name:  "extend",
				Usage: "Extend the payload's expiry by this much from now",
			},
		},
		Action: inquiry,
	}
}

// payloadFlags returns the envelope sealing flags shared by dropoff
// and pickup.
func payloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Seal the envelope under this password",
			EnvVars: []string{"DROPZONE_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "salt",
			Usage:   "Salt for envelope sealing",
			EnvVars: []string{"DROPZONE_SALT"},
		},
	}
}

// newCodec builds the envelope codec from the sealing flags.
func newCodec(c *cli.Context) (*envelope.Codec, error) {
	password := c.String("password")
	if password == "" {
		return envelope.New(), nil
	}
	return envelope.NewEncrypted(password, c.String("salt"))
}

func dropoff(c *cli.Context) error {
	zone := c.Args().First()
	if zone == "" {
		return fmt.Errorf("zone name required")
	}

	payload := c.Args().Get(1)
	if payload == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		payload = string(data)
	}
	if payload == "" {
		return fmt.Errorf("payload required (argument or stdin)")
	}

	codec, err := newCodec(c)
	if err != nil {
		return err
	}
	env, err := codec.Encode(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	client, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	params := url.Values{}
	if recipient := c.String("recipient"); recipient != "" {
		params.Set("recipient", recipient)
	}
	if tracking := c.String("tracking"); tracking != "" {
		params.Set("tracking", tracking)
	}
	if ttl := c.Duration("ttl"); ttl > 0 {
		params.Set("expires_on", time.Now().Add(ttl).Format(time.RFC3339))
	}

	path := "/api/payload/dropoff/" + url.PathEscape(zone)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := client.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Zone      string    `json:"zone"`
		Recipient string    `json:"recipient"`
		Tracking  string    `json:"tracking"`
		ExpiresOn time.Time `json:"expires_on"`
		Size      int       `json:"size"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Payload dropped into zone '%s' for '%s' (%d bytes)\n", result.Zone, result.Recipient, result.Size)
	if result.Tracking != "" {
		fmt.Printf("  Tracking: %s\n", result.Tracking)
	}
	if !result.ExpiresOn.IsZero() {
		fmt.Printf("  Expires:  %s\n", result.ExpiresOn.Format(time.RFC3339))
	}
	return nil
}

func pickup(c *cli.Context) error {
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

	path := "/api/payload/pickup/" + url.PathEscape(zone)
	if recipient := c.String("recipient"); recipient != "" {
		path += "?recipient=" + url.QueryEscape(recipient)
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Payload   string    `json:"payload"`
		Recipient string    `json:"recipient"`
		Tracking  string    `json:"tracking"`
		ExpiresOn time.Time `json:"expires_on"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		if errors.Is(err, connection.ErrNoPayload) {
			return fmt.Errorf("no payload waiting in zone '%s'", zone)
		}
		return err
	}

	content := result.Payload
	if !c.Bool("raw") {
		content, err = unwrapPayload(c, result.Payload)
		if err != nil {
			return err
		}
	}

	fmt.Print(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

// unwrapPayload recovers the original content from an envelope. Content
// that does not parse as an envelope is returned as-is; content that
// does parse but fails validation is an error.
func unwrapPayload(c *cli.Context, stored string) (string, error) {
	env, err := envelope.Parse(stored)
	if err != nil || env.HashValidation == "" {
		return stored, nil
	}

	codec, err := newCodec(c)
	if err != nil {
		return "", err
	}
	content, err := codec.Decode(env)
	if err != nil {
		return "", fmt.Errorf("unwrap payload: %w", err)
	}
	return content, nil
}

func inquiry(c *cli.Context) error {
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

	params := url.Values{}
	params.Set("tracking", c.String("tracking"))
	if recipient := c.String("recipient"); recipient != "" {
		params.Set("recipient", recipient)
	}
	if extend := c.Duration("extend"); extend > 0 {
		params.Set("new_expiry", time.Now().Add(extend).Format(time.RFC3339))
	}

	resp, err := client.Get(ctx, "/api/payload/inquiry/"+url.PathEscape(zone)+"?"+params.Encode())
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Found     bool      `json:"found"`
		ExpiresOn time.Time `json:"expires_on"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if !result.Found {
		return fmt.Errorf("tracking '%s' not found in zone '%s'", c.String("tracking"), zone)
	}
	fmt.Printf("Tracking '%s' is waiting in zone '%s'", c.String("tracking"), zone)
	if !result.ExpiresOn.IsZero() {
		fmt.Printf(" (expires %s)", result.ExpiresOn.Format(time.RFC3339))
	}
	fmt.Println()
	return nil
}
