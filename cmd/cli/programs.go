package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"unihub/internal/programs"
	"unihub/pkg/models"
)

func newProgramsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List, search and inspect programs",
	}
	cmd.AddCommand(newProgramsListCmd(opts), newProgramsSearchCmd(opts), newProgramsShowCmd(opts))
	return cmd
}

func newProgramsListCmd(opts *rootOptions) *cobra.Command {
	var (
		f             programs.Filter
		limit, offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List programs matching filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") {
				f.Limit = &limit
			}
			if cmd.Flags().Changed("offset") {
				f.Offset = &offset
			}
			page, err := opts.client().ListPrograms(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printPage(cmd, opts, page)
		},
	}
	fl := cmd.Flags()
	fl.Int64SliceVar(&f.DetailedFieldIDs, "field", nil, "detailed field ids")
	fl.Int64SliceVar(&f.CityIDs, "city", nil, "city ids")
	fl.Int64SliceVar(&f.UniversityIDs, "university", nil, "university ids")
	fl.StringSliceVar(&f.DegreeTypes, "degree", nil, "degree types (bachelor, master, phd, foundation, diploma)")
	fl.StringSliceVar(&f.UniversityTypes, "type", nil, "university types (public, private)")
	fl.StringVarP(&f.Query, "query", "q", "", "text search")
	fl.StringVar(&f.SortBy, "sort", "", "rankingQS, rankingTimes, rankingARWU or tuitionAmount")
	fl.StringVar(&f.SortOrder, "order", "", "asc or desc")
	fl.IntVarP(&limit, "limit", "n", programs.DefaultLimit, "page size")
	fl.IntVar(&offset, "offset", 0, "page offset")
	return cmd
}

func newProgramsSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search programs by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := opts.client().SearchPrograms(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printPage(cmd, opts, page)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	return cmd
}

func newProgramsShowCmd(opts *rootOptions) *cobra.Command {
	var detail bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || pid <= 0 {
				return fmt.Errorf("invalid program id %q", args[0])
			}
			c := opts.client()
			if detail {
				d, err := c.ProgramDetail(cmd.Context(), pid)
				if err != nil {
					return err
				}
				if d == nil {
					return fmt.Errorf("program %d not found", pid)
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), d)
				}
				printProgram(cmd, d.ProgramListItem)
				printDetail(cmd, d)
				return nil
			}

			p, err := c.GetProgram(cmd.Context(), pid)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("program %d not found", pid)
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printProgram(cmd, *p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&detail, "detail", false, "include tuition, scholarships, courses and outcomes")
	return cmd
}

func printPage(cmd *cobra.Command, opts *rootOptions, page programs.Page) error {
	w := cmd.OutOrStdout()
	if opts.json {
		return printJSON(w, page)
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No programs found.")
		return nil
	}
	rows := make([][]string, 0, len(page.Items))
	for _, p := range page.Items {
		tuition := "-"
		if p.Tuition != nil {
			if p.Tuition.IsFree {
				tuition = "free"
			} else {
				tuition = fmtAmount(p.Tuition.AnnualAmount, p.Tuition.CurrencyCode)
			}
		}
		rows = append(rows, []string{
			id(p.ID), p.NameEN, p.DegreeType, p.UniversityNameEN, p.CityNameEN, p.CountryNameEN,
			fmtRank(p.QSRanking), tuition,
		})
	}
	printTable(w, []string{"ID", "Program", "Degree", "University", "City", "Country", "QS", "Tuition"}, rows)
	fmt.Fprintf(w, "%d-%d of %d\n", page.Offset+1, page.Offset+len(page.Items), page.Total)
	return nil
}

func printProgram(cmd *cobra.Command, p models.ProgramListItem) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s)\n", headerStyle.Render(p.NameEN), p.DegreeType)
	if p.NameZH != "" {
		fmt.Fprintln(w, dimStyle.Render(p.NameZH))
	}
	fmt.Fprintf(w, "University: %s, %s, %s\n", p.UniversityNameEN, p.CityNameEN, p.CountryNameEN)
	fmt.Fprintf(w, "Rankings:   QS %s  Times %s  ARWU %s\n", fmtRank(p.QSRanking), fmtRank(p.TimesRanking), fmtRank(p.ARWURanking))
	if p.DurationMonths > 0 {
		fmt.Fprintf(w, "Duration:   %d months\n", p.DurationMonths)
	}
	if len(p.TeachingLanguages) > 0 {
		fmt.Fprintf(w, "Languages:  %v\n", []string(p.TeachingLanguages))
	}
	if p.OfficialURL != "" {
		fmt.Fprintf(w, "URL:        %s\n", p.OfficialURL)
	}
}

func printDetail(cmd *cobra.Command, d *models.ProgramDetail) {
	w := cmd.OutOrStdout()
	if t := d.TuitionFee; t != nil {
		if t.IsFree {
			fmt.Fprintln(w, "Tuition:    free")
		} else {
			fmt.Fprintf(w, "Tuition:    %s per year\n", fmtAmount(t.AnnualFeeAmount, t.CurrencyCode))
		}
	}
	if len(d.Scholarships) > 0 {
		rows := make([][]string, 0, len(d.Scholarships))
		for _, s := range d.Scholarships {
			award := "-"
			if s.AwardAmount != nil {
				award = *s.AwardAmount
			}
			rows = append(rows, []string{s.NameEN, award})
		}
		printTable(w, []string{"Scholarship", "Amount"}, rows)
	}
	if len(d.Courses) > 0 {
		rows := make([][]string, 0, len(d.Courses))
		for _, c := range d.Courses {
			rows = append(rows, []string{c.NameEN, fmtCredits(c.Credits)})
		}
		printTable(w, []string{"Course", "Credits"}, rows)
	}
	if e := d.Employment; e != nil && e.EmploymentRate != nil {
		fmt.Fprintf(w, "Employment: %.0f%%\n", *e.EmploymentRate)
	}
	for _, o := range d.Opportunities {
		fmt.Fprintf(w, "Opportunity [%s]: %s\n", o.OpportunityType, o.Title)
	}
}

func fmtCredits(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
