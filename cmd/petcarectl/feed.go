package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/spf13/cobra"

	"pet-care-records/internal/calendar"
)

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Feeds iCalendar",
	}

	var (
		file   string
		output string
		nowStr string
		check  bool
	)
	render := &cobra.Command{
		Use:   "render",
		Short: "Renderiza un bundle YAML a iCalendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(file)
			if err != nil {
				return err
			}

			now := time.Now()
			if nowStr != "" {
				now, err = time.Parse(time.RFC3339, nowStr)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
			}

			doc := calendar.Build(b.feedData(), now)

			if check {
				cal, err := ical.ParseCalendar(strings.NewReader(doc))
				if err != nil {
					return fmt.Errorf("generated feed does not parse: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "ok: %d events\n", len(cal.Events()))
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			return os.WriteFile(output, []byte(doc), 0o644)
		},
	}
	render.Flags().StringVarP(&file, "file", "f", "", "Bundle YAML")
	render.Flags().StringVarP(&output, "output", "o", "-", "Archivo de salida (- = stdout)")
	render.Flags().StringVar(&nowStr, "now", "", "DTSTAMP fijo (RFC3339)")
	render.Flags().BoolVar(&check, "check", false, "Valida el resultado con un parser iCalendar")
	_ = render.MarkFlagRequired("file")

	cmd.AddCommand(render)
	return cmd
}
