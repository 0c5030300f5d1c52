package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinefill/internal/catalog"
	"cinefill/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the local movie catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records and their genres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				movies, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if missingOnly {
					filtered := movies[:0]
					for _, movie := range movies {
						if movie.MissingMetadata() {
							filtered = append(filtered, movie)
						}
					}
					movies = filtered
				}
				if jsonOutput {
					if movies == nil {
						movies = []*catalog.Movie{}
					}
					return writeJSON(cmd, movies)
				}
				if len(movies) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(movies))
				for _, movie := range movies {
					genres, err := store.GenresFor(cmd.Context(), movie.ID)
					if err != nil {
						return err
					}
					labels := make([]string, 0, len(genres))
					for _, g := range genres {
						labels = append(labels, g.Label())
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", movie.ID),
						movie.RegistryID,
						movie.Title,
						strings.Join(labels, ", "),
						yesNo(!movie.MissingPoster()),
						yesNo(movie.Matched),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable("",
					[]string{"ID", "Registry ID", "Title", "Genres", "Poster", "Matched"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print records as JSON")
	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Only list records missing a poster, backdrop or overview")
	return cmd
}
