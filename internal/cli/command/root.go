package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rambotech/dropzone-go/internal/cli/connection"
	"github.com/rambotech/dropzone-go/internal/cli/output"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "dropzone-cli",
		Usage:   "DropZone relay command-line client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			DropoffCommand(),
			PickupCommand(),
			InquiryCommand(),
			ReferenceCommand(),
			StatsCommand(),
			LimitsCommand(),
			AdminCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "DropZone server address (e.g., localhost:5090)",
			EnvVars: []string{"DROPZONE_SERVER"},
			Value:   "localhost:5090",
		},
		&cli.StringFlag{
			Name:    "access-token",
			Aliases: []string{"t"},
			Usage:   "Access token for client operations",
			EnvVars: []string{"DROPZONE_ACCESS_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Aliases: []string{"T"},
			Usage:   "Admin token for admin operations",
			EnvVars: []string{"DROPZONE_ADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM file with additional trusted CA certificates",
			EnvVars: []string{"DROPZONE_CA_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server      string
	AccessToken string
	AdminToken  string
	CAFile      string

	Output  string // table, json, yaml
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:      c.String("server"),
		AccessToken: c.String("access-token"),
		AdminToken:  c.String("admin-token"),
		CAFile:      c.String("ca-file"),
		Output:      c.String("output"),
		Verbose:     c.Bool("verbose"),
	}
}

// NewClient builds the server client from the global flags.
func NewClient(c *cli.Context) (*connection.Client, error) {
	flags := ParseGlobalFlags(c)

	opts := []connection.Option{
		connection.WithAdminToken(flags.AdminToken),
	}
	if flags.CAFile != "" {
		opts = append(opts, connection.WithCAFile(flags.CAFile))
	}

	return connection.NewClient(flags.Server, flags.AccessToken, opts...)
}

// formatter builds the output formatter from the global flags.
func formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(c.String("output")))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
