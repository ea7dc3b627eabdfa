package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkreader/ink-sources/internal/models"
	"github.com/inkreader/ink-sources/internal/source"
)

// emptyPageLimit bounds how many consecutive zero-item pages a traversal
// tolerates before stopping. The engine keeps advancing the cursor as long
// as a site reports more pages; a next link that never disappears would
// otherwise loop forever.
const emptyPageLimit = 3

var (
	flagMaxPages int
	flagFilters  []string
)

var rootCmd = &cobra.Command{
	Use:   "ink-sources",
	Short: "Exercise the bundled manga content sources",
}

func init() {
	browseCmd := &cobra.Command{
		Use:   "browse <source> <section>",
		Short: "Walk a discover section page by page",
		Args:  cobra.ExactArgs(2),
		RunE:  runBrowse,
	}
	browseCmd.Flags().IntVar(&flagMaxPages, "max-pages", 1, "pages to fetch (0 = until the source stops)")

	searchCmd := &cobra.Command{
		Use:   "search <source> <query>",
		Short: "Search a source",
		Args:  cobra.ExactArgs(2),
		RunE:  runSearch,
	}
	searchCmd.Flags().IntVar(&flagMaxPages, "max-pages", 1, "pages to fetch (0 = until the source stops)")
	searchCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "filter value as id=value (repeatable)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "sources",
			Short: "List registered sources",
			Run: func(_ *cobra.Command, _ []string) {
				for _, info := range source.All() {
					fmt.Printf("%-14s %-16s %s\n", info.ID, info.Name, info.SiteURL)
				}
			},
		},
		&cobra.Command{
			Use:   "sections <source>",
			Short: "List a source's discover sections",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				s, err := lookupSource(args[0])
				if err != nil {
					return err
				}
				for _, sec := range s.DiscoverSections() {
					fmt.Printf("%-22s %-10s %s\n", sec.ID, sec.Type, sec.Title)
				}
				return nil
			},
		},
		browseCmd,
		searchCmd,
		&cobra.Command{
			Use:   "details <source> <id>",
			Short: "Fetch series details",
			Args:  cobra.ExactArgs(2),
			RunE:  runDetails,
		},
		&cobra.Command{
			Use:   "chapters <source> <id>",
			Short: "List a series' chapters, oldest first",
			Args:  cobra.ExactArgs(2),
			RunE:  runChapters,
		},
		&cobra.Command{
			Use:   "pages <source> <series-id> <chapter-id>",
			Short: "List a chapter's page image URLs",
			Args:  cobra.ExactArgs(3),
			RunE:  runPages,
		},
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func lookupSource(id string) (source.Source, error) {
	s, ok := source.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown source %q (try 'ink-sources sources')", id)
	}
	return s, nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	s, err := lookupSource(args[0])
	if err != nil {
		return err
	}
	return walkPages(func(cur *models.Cursor) (models.PagedListings, error) {
		return s.SectionItems(cmd.Context(), args[1], cur)
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := lookupSource(args[0])
	if err != nil {
		return err
	}
	q := models.SearchQuery{Title: args[1]}
	for _, raw := range flagFilters {
		id, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("bad --filter %q, want id=value", raw)
		}
		q.Filters = append(q.Filters, models.FilterValue{ID: id, Value: value})
	}
	return walkPages(func(cur *models.Cursor) (models.PagedListings, error) {
		return s.Search(cmd.Context(), q, cur)
	})
}

// walkPages drives a cursor chain from its first page until the source
// stops, the page budget runs out, or the empty-page bound trips.
func walkPages(fetch func(*models.Cursor) (models.PagedListings, error)) error {
	var cur *models.Cursor
	empty := 0
	for page := 1; flagMaxPages == 0 || page <= flagMaxPages; page++ {
		res, err := fetch(cur)
		if err != nil {
			return err
		}
		for _, item := range res.Items {
			line := fmt.Sprintf("%-30s %s", item.ID, item.Title)
			if item.Subtitle != "" {
				line += " [" + item.Subtitle + "]"
			}
			fmt.Println(line)
		}
		if len(res.Items) == 0 {
			empty++
			if empty >= emptyPageLimit {
				fmt.Fprintf(os.Stderr, "stopping after %d consecutive empty pages\n", empty)
				break
			}
		} else {
			empty = 0
		}
		if res.Next == nil {
			break
		}
		cur = res.Next
	}
	return nil
}

func runDetails(cmd *cobra.Command, args []string) error {
	s, err := lookupSource(args[0])
	if err != nil {
		return err
	}
	d, err := s.SeriesDetails(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Title:    %s\n", d.PrimaryTitle)
	if len(d.SecondaryTitles) > 0 {
		fmt.Printf("Also as:  %s\n", strings.Join(d.SecondaryTitles, "; "))
	}
	fmt.Printf("Status:   %s\nRating:   %s\n", d.Status, d.ContentRating)
	if len(d.Authors) > 0 {
		fmt.Printf("Authors:  %s\n", strings.Join(d.Authors, ", "))
	}
	for _, group := range d.TagGroups {
		var names []string
		for _, t := range group.Tags {
			names = append(names, t.Title)
		}
		fmt.Printf("%-9s %s\n", group.Title+":", strings.Join(names, ", "))
	}
	fmt.Printf("\n%s\n", d.Synopsis)
	return nil
}

func runChapters(cmd *cobra.Command, args []string) error {
	s, err := lookupSource(args[0])
	if err != nil {
		return err
	}
	chapters, err := s.Chapters(cmd.Context(), args[1])
	if err != nil {
		return err
	}
	for _, ch := range chapters {
		fmt.Printf("%-20s %6.1f  %s\n", ch.Identifier, ch.Number, ch.PublishedAt.Format("2006-01-02"))
	}
	return nil
}

func runPages(cmd *cobra.Command, args []string) error {
	s, err := lookupSource(args[0])
	if err != nil {
		return err
	}
	pages, err := s.ChapterPages(cmd.Context(), models.ChapterRef{SeriesID: args[1], ChapterID: args[2]})
	if err != nil {
		return err
	}
	for i, page := range pages {
		fmt.Printf("%3d  %s\n", i+1, page)
	}
	return nil
}
