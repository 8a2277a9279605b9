package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/popup"
)

// errInvalidDocument marks a document the site cannot be rendered from.
var errInvalidDocument = errors.New("invalid data document")

func newValidateCmd(g *globalFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report eligible images, popups and missing fields",
		Long: `Load the data document and report what the pages will show: eligible
images per room and facility, popups live on the given day and fields that
will fall back to placeholders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := time.Now()
			if date != "" {
				t, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
				day = t
			}
			return runValidate(cmd.Context(), g, day, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day popups are checked against (YYYY-MM-DD, default today)")
	return cmd
}

func runValidate(ctx context.Context, g *globalFlags, day time.Time, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	d, err := data.NewLoader(data.WithCacheTTL(0)).Load(ctx, cfg.Data.Source)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.Source, err)
	}
	r := Validate(d, day)
	r.Print(w)
	if len(r.Errors) > 0 {
		return fmt.Errorf("%w: %d error(s)", errInvalidDocument, len(r.Errors))
	}
	return nil
}

// Report summarises what a document will render.
type Report struct {
	Property   string
	Exterior   int
	Rooms      []EntityReport
	Facilities []EntityReport
	Popups     []string
	Warnings   []string
	Errors     []string
}

// EntityReport counts eligible images of one room or facility.
type EntityReport struct {
	ID     string
	Name   string
	Images map[string]int
}

// Validate inspects d as the pages would on day.
func Validate(d data.Document, day time.Time) Report {
	var r Report
	if d.Map("property") == nil {
		r.Errors = append(r.Errors, "property is missing")
		return r
	}
	p := mapper.NewPage("validate", nil, d)

	r.Property = data.String(d.Get("property.name"))
	if r.Property == "" {
		r.Warnings = append(r.Warnings, "property.name is empty, the placeholder name is shown")
	}
	r.Exterior = len(p.PropertyImages(mapper.PropertyExterior))
	if r.Exterior == 0 {
		r.Warnings = append(r.Warnings, "no eligible property exterior images")
	}
	if lat, ok := data.Float(d.Get("property.latitude")); !ok || lat == 0 {
		r.Warnings = append(r.Warnings, "property.latitude is missing, the directions map is hidden")
	}

	for i, room := range data.Maps(d.Get("rooms")) {
		e := EntityReport{
			ID:   data.String(room["id"]),
			Name: data.String(room["name"]),
			Images: map[string]int{
				"thumbnail": len(p.RoomImages(room, mapper.RoomThumbnail)),
				"interior":  len(p.RoomImages(room, mapper.RoomInterior)),
				"exterior":  len(p.RoomImages(room, mapper.RoomExterior)),
			},
		}
		if e.ID == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("rooms[%d] has no id and cannot be linked", i))
		}
		if e.Images["interior"] == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("room %s has no eligible interior images", label(e, i)))
		}
		r.Rooms = append(r.Rooms, e)
	}

	for i, fac := range data.Maps(d.Get("property.facilities")) {
		e := EntityReport{
			ID:     data.String(fac["id"]),
			Name:   data.String(fac["name"]),
			Images: map[string]int{"images": len(images.Selected(images.FromRecords(fac["images"]), ""))},
		}
		if e.Name == "" {
			r.Warnings = append(r.Warnings, fmt.Sprintf("facility %s has no name", label(e, i)))
		}
		r.Facilities = append(r.Facilities, e)
	}

	for _, pop := range popup.Eligible(popup.FromDocument(d), day, nil, false) {
		r.Popups = append(r.Popups, pop.ID)
	}
	return r
}

func label(e EntityReport, i int) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("#%d", i)
}

// Print writes the report as aligned text.
func (r Report) Print(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "property\t%s\n", r.Property)
	fmt.Fprintf(tw, "exterior images\t%d\n", r.Exterior)
	fmt.Fprintf(tw, "rooms\t%d\n", len(r.Rooms))
	for _, e := range r.Rooms {
		fmt.Fprintf(tw, "  %s\t%s\tthumbnail %d\tinterior %d\texterior %d\n",
			e.ID, e.Name, e.Images["thumbnail"], e.Images["interior"], e.Images["exterior"])
	}
	fmt.Fprintf(tw, "facilities\t%d\n", len(r.Facilities))
	for _, e := range r.Facilities {
		fmt.Fprintf(tw, "  %s\t%s\timages %d\n", e.ID, e.Name, e.Images["images"])
	}
	fmt.Fprintf(tw, "popups live\t%d\n", len(r.Popups))
	for _, id := range r.Popups {
		fmt.Fprintf(tw, "  %s\n", id)
	}
	_ = tw.Flush()

	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	for _, msg := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", msg)
	}
}
