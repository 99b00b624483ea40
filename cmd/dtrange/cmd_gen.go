package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dtrange/internal/config"
	"dtrange/internal/daterange"
	"dtrange/internal/ics"
	appLog "dtrange/internal/log"
	"dtrange/internal/model"
	"dtrange/internal/timepoint"
)

func newGenCmd(fv *flagValues) *cobra.Command {
	var summary string

	cmd := &cobra.Command{
		Use:   "gen START END",
		Short: "Print the points of a range",
		Example: "  dtrange gen 2022-01-01 2022-01-30\n" +
			"  dtrange gen 2000-01-01 2023-01-01 --step @yearly --layout %Y\n" +
			"  dtrange gen '2022-01-01 00:00' '2022-01-02 00:00' --format 'YYYY-MM-DD HH:mm' --step 1h --output json\n" +
			"  dtrange gen today 2030-01-01 --step P1M --output ics",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fv)
			if err != nil {
				return err
			}
			p, err := planFromArgs(cfg, args)
			if err != nil {
				return err
			}

			s, err := write(cmd.OutOrStdout(), cfg, p, summary)
			if err != nil {
				return err
			}

			kv := []any{"count", humanize.Comma(int64(s.Count)), "step", s.Step, "direction", s.Direction}
			if s.Reason != "" {
				kv = append(kv, "reason", s.Reason)
			}
			appLog.Info("range generated", kv...)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fv.output, "output", "o", "", "Output: text, json, ics or rrule")
	f.StringVar(&fv.layout, "layout", "", "Layout of points in text output")
	f.StringVar(&summary, "summary", "", "ICS event SUMMARY")
	return cmd
}

// write encodes the plan in cfg.Output and returns what was written.
func write(w io.Writer, cfg *config.Config, p *daterange.Plan, eventSummary string) (model.Summary, error) {
	s := model.Summary{
		Start:     p.Start,
		End:       p.End,
		Step:      p.Step.String(),
		Direction: p.Direction.String(),
	}
	if p.Empty() {
		s.Reason = p.Reason.String()
	}

	switch cfg.Output {
	case config.OutputRRule:
		r, err := ics.ToRRule(p)
		if err != nil {
			return s, err
		}
		_, err = fmt.Fprintln(w, r.String())
		return s, err

	case config.OutputICS:
		n, err := ics.Encode(w, p.All(), ics.EncodeOptions{Summary: eventSummary})
		s.Count = n
		return s, err

	case config.OutputJSON:
		enc := json.NewEncoder(w)
		i := 0
		for t := range p.All() {
			pt := model.NewPoint(i, t)
			if err := enc.Encode(pt); err != nil {
				return s, err
			}
			s.Observe(pt)
			i++
		}
		return s, nil
	}

	layout, err := timepoint.Layout(cfg.OutputLayout)
	if err != nil {
		return s, err
	}
	bw := bufio.NewWriter(w)
	i := 0
	for t := range p.All() {
		s.Observe(model.NewPoint(i, t))
		i++
		if _, err := bw.WriteString(t.Format(layout) + "\n"); err != nil {
			return s, err
		}
	}
	return s, bw.Flush()
}
