package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseIDArg(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return v, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newIscedCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isced",
		Short: "Browse ISCED-F fields of study",
	}

	broad := &cobra.Command{
		Use:   "broad",
		Short: "List broad fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.client().BroadFields(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, 0, len(items))
			for _, f := range items {
				rows = append(rows, []string{id(f.ID), f.Code, f.NameEN})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Code", "Name"}, rows)
			return nil
		},
	}

	narrow := &cobra.Command{
		Use:   "narrow [broad-id]",
		Short: "List narrow fields of a broad field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			broadID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			items, err := opts.client().NarrowFields(cmd.Context(), broadID)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, 0, len(items))
			for _, f := range items {
				rows = append(rows, []string{id(f.ID), f.Code, f.NameEN})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Code", "Name"}, rows)
			return nil
		},
	}

	detailed := &cobra.Command{
		Use:   "detailed [narrow-id]",
		Short: "List detailed fields of a narrow field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			narrowID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			items, err := opts.client().DetailedFields(cmd.Context(), narrowID)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, 0, len(items))
			for _, f := range items {
				rows = append(rows, []string{id(f.ID), f.Code, f.NameEN})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Code", "Name"}, rows)
			return nil
		},
	}

	cmd.AddCommand(broad, narrow, detailed)
	return cmd
}

func newCountriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.client().Countries(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{id(c.ID), c.Code, c.NameEN, yesNo(c.IsEU), yesNo(c.IsSchengen)})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Code", "Name", "EU", "Schengen"}, rows)
			return nil
		},
	}
}

func newCitiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cities [country-id]",
		Short: "List cities of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			countryID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			items, err := opts.client().Cities(cmd.Context(), countryID)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{id(c.ID), c.NameEN, c.NameZH})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Name (zh)"}, rows)
			return nil
		},
	}
}

func newUniversitiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "universities [country-id]",
		Short: "List universities of a country, best QS rank first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			countryID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			items, err := opts.client().Universities(cmd.Context(), countryID)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, 0, len(items))
			for _, u := range items {
				rows = append(rows, []string{
					id(u.ID), u.NameEN, u.Type,
					fmtRank(u.QSRanking), fmtRank(u.TimesRanking), fmtRank(u.ARWURanking),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Type", "QS", "Times", "ARWU"}, rows)
			return nil
		},
	}
}
