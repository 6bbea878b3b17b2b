package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/comandaapp/comanda/internal/comanda/ports"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newProductCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	var listCategory string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the products of a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).products.SelectCategory(cmd.Context(), listCategory); err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tDESCRIPTION")
			for _, p := range (*a).products.Products() {
				fmt.Fprintf(w, "%s\t%s\tR$ %s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Description)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&listCategory, "category", "c", "", "category id")
	_ = list.MarkFlagRequired("category")

	var name, description, price, categoryID, bannerPath string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product, optionally uploading a banner image",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedPrice, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", price, err)
			}

			p := ports.NewProduct{
				Name:        name,
				Description: description,
				Price:       parsedPrice,
				CategoryID:  categoryID,
			}
			if bannerPath != "" {
				banner, err := os.Open(bannerPath)
				if err != nil {
					return fmt.Errorf("open banner: %w", err)
				}
				defer banner.Close()
				p.Banner = banner
				p.BannerName = filepath.Base(bannerPath)
			}

			created, err := (*a).gw.CreateProduct(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Printf("created product %q (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&name, "name", "n", "", "product name")
	create.Flags().StringVarP(&description, "description", "d", "", "product description")
	create.Flags().StringVarP(&price, "price", "p", "", "product price, e.g. 29.90")
	create.Flags().StringVarP(&categoryID, "category", "c", "", "category id")
	create.Flags().StringVarP(&bannerPath, "banner", "b", "", "path to a banner image")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("price")
	_ = create.MarkFlagRequired("category")

	cmd.AddCommand(list, create)
	return cmd
}
