package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"unihub/internal/apiclient"
	"unihub/internal/programs"
	"unihub/pkg/models"
)

const pageSize = 100

var header = []string{
	"id", "country", "city", "university", "university_type",
	"qs_ranking", "times_ranking", "arwu_ranking",
	"program", "program_zh", "degree_type", "duration_months", "teaching_languages",
	"currency", "annual_amount", "home_annual_amount",
}

func main() {
	var (
		api     = flag.String("api", apiclient.DefaultBaseURL, "API base URL")
		out     = flag.String("out", "data/programs_export.csv", "output CSV path")
		query   = flag.String("query", "", "text search")
		degrees = flag.String("degree", "", "comma separated degree types")
		sortBy  = flag.String("sort", "", "sort key")
		order   = flag.String("order", "", "asc or desc")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	f := programs.Filter{Query: *query, SortBy: *sortBy, SortOrder: *order}
	if *degrees != "" {
		f.DegreeTypes = strings.Split(*degrees, ",")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer file.Close()

	n, err := exportPrograms(ctx, apiclient.New(*api, ""), f, file)
	if err != nil {
		log.Fatalf("export programs failed: %v", err)
	}
	log.Printf("✅ exported %d programs to %s", n, *out)
}

// exportPrograms pages through every program matching f and writes one CSV
// row per program.
func exportPrograms(ctx context.Context, c *apiclient.Client, f programs.Filter, out io.Writer) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return 0, err
	}

	written := 0
	limit := pageSize
	f.Limit = &limit
	for {
		offset := written
		f.Offset = &offset

		page, err := c.ListPrograms(ctx, f)
		if err != nil {
			return written, fmt.Errorf("page at offset %d: %w", offset, err)
		}
		for _, p := range page.Items {
			if err := w.Write(row(p)); err != nil {
				return written, err
			}
			written++
		}
		if len(page.Items) == 0 || written >= page.Total {
			break
		}
	}

	w.Flush()
	return written, w.Error()
}

func row(p models.ProgramListItem) []string {
	r := []string{
		strconv.FormatInt(p.ID, 10),
		p.CountryNameEN,
		p.CityNameEN,
		p.UniversityNameEN,
		p.UniversityType,
		optInt(p.QSRanking),
		optInt(p.TimesRanking),
		optInt(p.ARWURanking),
		p.NameEN,
		p.NameZH,
		p.DegreeType,
		"",
		strings.Join(p.TeachingLanguages, ";"),
		"", "", "",
	}
	if p.DurationMonths > 0 {
		r[11] = strconv.Itoa(p.DurationMonths)
	}
	if t := p.Tuition; t != nil {
		r[13] = t.CurrencyCode
		r[14] = optFloat(t.AnnualAmount)
		r[15] = optFloat(t.HomeAnnualAmount)
	}
	return r
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
