package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"github.com/teambition/rrule-go"

	"dtrange/internal/daterange"
	"dtrange/internal/ics"
	appLog "dtrange/internal/log"
)

// checkPoints bounds how many points check compares against the RRULE.
const checkPoints = 5000

func newCheckCmd(fv *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "check START END",
		Short: "Describe how a range would be traversed without printing it",
		Long: "check prints the normalized boundaries, the direction and, for ranges that\n" +
			"produce nothing, the reason: start equals end, step direction mismatch or\n" +
			"non-terminating step. When the range can be written as an RRULE, the rule is\n" +
			"printed and its expansion is compared with the generated points.",
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

			out := struct {
				Start         string `json:"start"`
				End           string `json:"end"`
				Step          string `json:"step"`
				Direction     string `json:"direction"`
				Empty         bool   `json:"empty"`
				Reason        string `json:"reason"`
				RRule         string `json:"rrule,omitempty"`
				RRuleVerified *bool  `json:"rrule_verified,omitempty"`
			}{
				Start:     p.Start.Format(time.RFC3339Nano),
				End:       p.End.Format(time.RFC3339Nano),
				Step:      p.Step.String(),
				Direction: p.Direction.String(),
				Empty:     p.Empty(),
				Reason:    p.Reason.String(),
			}
			if r, err := ics.ToRRule(p); err == nil {
				ok := sameAsRRule(p, r)
				out.RRule = r.String()
				out.RRuleVerified = &ok
				if !ok {
					appLog.Warn("rrule expansion differs from generated range", "rrule", out.RRule)
				}
			} else {
				appLog.Debug("range has no rrule form", "reason", err.Error())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

// sameAsRRule expands r over the plan's window and compares it point by
// point with the plan's own sequence, up to checkPoints.
func sameAsRRule(p *daterange.Plan, r *rrule.RRule) bool {
	got, _ := ics.Expand(r, p.Start, p.End, checkPoints)

	i := 0
	for t := range p.All() {
		if i == checkPoints {
			break
		}
		if i >= len(got) || !got[i].Equal(t) {
			return false
		}
		i++
	}
	return i == len(got)
}
