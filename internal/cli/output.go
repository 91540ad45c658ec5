package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/units"
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePlanList(cmd *cobra.Command, plans []domain.Plan) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDISTANCE\tWEEKS\tCREATED")
	for _, p := range plans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			p.ID.Hex(),
			p.Title,
			p.Distance,
			len(p.Weeks),
			p.CreatedAt.Format(domain.DateLayout),
		)
	}
	w.Flush()
}

// writePlan prints every week, or only week number onlyWeek when it is > 0.
func writePlan(cmd *cobra.Command, p domain.Plan, onlyWeek int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", p.Title, p.Distance)

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for _, week := range p.Weeks {
		if onlyWeek > 0 && week.Week != onlyWeek {
			continue
		}
		fmt.Fprintf(w, "\nWeek %d\t%d sessions\n", week.Week, week.SessionCount())
		for _, day := range week.Days {
			if day.IsRest() {
				fmt.Fprintf(w, "  Day %d\trest\n", day.Day)
				continue
			}
			for i, s := range day.Sessions {
				label := ""
				if i == 0 {
					label = fmt.Sprintf("Day %d", day.Day)
				}
				fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					label,
					i,
					s.Sport,
					units.FormatDistance(s.DistanceM),
					units.FormatDuration(s.DurationS),
					s.Intensity,
					s.Notes,
				)
			}
		}
	}
	w.Flush()
}

func writeWorkouts(cmd *cobra.Command, workouts []domain.Workout) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSPORT\tDISTANCE\tDURATION\tRPE\tNOTES")
	for _, wo := range workouts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			wo.ID.Hex(),
			wo.Date,
			wo.Sport,
			units.FormatDistance(wo.DistanceM),
			units.FormatDuration(wo.DurationS),
			wo.RPE,
			wo.Notes,
		)
	}
	w.Flush()
}

func writeProfile(cmd *cobra.Command, p domain.AthleteProfile) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "Name\t%s\n", p.FullName)
	fmt.Fprintf(w, "Level\t%s\n", p.TrainingLevel)
	fmt.Fprintf(w, "Focus\t%s\n", p.SportFocus)
	fmt.Fprintf(w, "Race date\t%s\n", p.RaceDate)
	w.Flush()
}

func writeSummary(cmd *cobra.Command, sum *domain.WeeklySummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week of %s: %d workouts, %s, %s\n",
		sum.WeekStart,
		sum.WorkoutCount,
		units.FormatDistance(sum.TotalDistM),
		units.FormatDuration(sum.TotalDurS),
	)

	sports := make([]string, 0, len(sum.Sports))
	for s := range sum.Sports {
		sports = append(sports, string(s))
	}
	sort.Strings(sports)

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for _, s := range sports {
		t := sum.Sports[domain.Sport(s)]
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\n", s, t.Count, units.FormatDistance(t.DistanceM), units.FormatDuration(t.DurationS))
	}
	w.Flush()
}
