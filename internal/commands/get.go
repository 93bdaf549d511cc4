package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/models"
)

// lister fetches one collection and writes it as a table.
type lister func(ctx context.Context, c *api.Client, out io.Writer) error

var listers = map[string]lister{
	"bins":          listBins,
	"trucks":        listTrucks,
	"routes":        listRoutes,
	"users":         listUsers,
	"maintenance":   listMaintenance,
	"notifications": listNotifications,
}

func addGet(topLevel *cobra.Command) {
	var status string
	cmd := &cobra.Command{
		Use:       "get <bins|trucks|routes|users|maintenance|notifications>",
		Short:     "Print a collection as a table.",
		ValidArgs: []string{"bins", "trucks", "routes", "users", "maintenance", "notifications"},
		Args:      cobra.ExactValidArgs(1),
		Example: `
dashboard get bins
dashboard get bins --status AVAILABLE
dashboard get trucks --status IN_SERVICE
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, _, err := signedIn(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			switch args[0] {
			case "bins":
				err = printBins(ctx, client, status, out)
			case "trucks":
				err = printTrucks(ctx, client, status, out)
			default:
				err = listers[args[0]](ctx, client, out)
			}
			if err != nil {
				return fmt.Errorf("failed to get %s: %s", args[0], api.Message(err, "request failed"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Status filter for bins and trucks.")
	topLevel.AddCommand(cmd)
}

func newTable(headers ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	bold := color.New(color.Bold)
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = bold.Sprint(h)
	}
	tbl.AddRow(cells...)
	return tbl
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func coords(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f, %.5f", *lat, *lng)
}

func listBins(ctx context.Context, c *api.Client, out io.Writer) error {
	return printBins(ctx, c, "", out)
}

func printBins(ctx context.Context, c *api.Client, status string, out io.Writer) error {
	bins, err := c.ListBins(ctx, status)
	if err != nil {
		return err
	}
	tbl := newTable("BIN", "STATUS", "PLASTIC", "PAPER", "GLASS", "LOCATION")
	for _, b := range bins {
		plastic, paper, glass := b.Levels()
		level := func(v int) string {
			s := strconv.Itoa(v) + "%"
			if v >= models.FullLevelThreshold {
				return color.RedString(s)
			}
			return s
		}
		tbl.AddRow(b.BinID, orDash(b.Status), level(plastic), level(paper), level(glass), coords(b.Latitude, b.Longitude))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func listTrucks(ctx context.Context, c *api.Client, out io.Writer) error {
	return printTrucks(ctx, c, "", out)
}

func printTrucks(ctx context.Context, c *api.Client, status string, out io.Writer) error {
	trucks, err := c.ListTrucks(ctx, status)
	if err != nil {
		return err
	}
	tbl := newTable("ID", "REGISTRATION", "CAPACITY (KG)", "STATUS", "LOCATION")
	for _, t := range trucks {
		tbl.AddRow(t.ID, t.RegistrationNumber, t.CapacityKg, orDash(t.Status), coords(t.Latitude, t.Longitude))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func listRoutes(ctx context.Context, c *api.Client, out io.Writer) error {
	routes, err := c.ListRoutes(ctx)
	if err != nil {
		return err
	}
	tbl := newTable("ID", "NAME", "STATUS", "STOPS", "ASSIGNED TO")
	for _, r := range routes {
		tbl.AddRow(r.ID, r.Name, orDash(r.Status), len(r.Stops), orDash(r.AssignedToID))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func listUsers(ctx context.Context, c *api.Client, out io.Writer) error {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return err
	}
	tbl := newTable("ID", "USERNAME", "NAME", "ROLE")
	for _, u := range users {
		tbl.AddRow(u.ID, u.Username, orDash(u.FullName), u.Role.Label())
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func listMaintenance(ctx context.Context, c *api.Client, out io.Writer) error {
	reqs, err := c.ListMaintenance(ctx)
	if err != nil {
		return err
	}
	tbl := newTable("ID", "BIN", "TYPE", "PRIORITY", "STATUS", "CREATED")
	for _, m := range reqs {
		tbl.AddRow(m.ID, m.BinID, m.RequestType, m.Priority, m.Status, orDash(m.CreatedAt))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func listNotifications(ctx context.Context, c *api.Client, out io.Writer) error {
	notes, err := c.ListNotifications(ctx)
	if err != nil {
		return err
	}
	tbl := newTable("", "TYPE", "TITLE", "MESSAGE", "CREATED")
	for _, n := range notes {
		mark := "•"
		if n.IsRead {
			mark = " "
		}
		tbl.AddRow(mark, n.Type, n.Title, n.Message, orDash(n.CreatedAt))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}
