package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"demoscript/internal/product"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a product page",
	Long:  `Fetch a product page and print the extracted details as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	scraper := product.NewScraper(nil)

	details, err := scraper.Scrape(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if details.Title == "" {
		return errors.New("no product details found on page")
	}

	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
