package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newOrderCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage table orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the active orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).orders.Refresh(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTABLE\tSTATUS\tITEMS\tCREATED")
			for _, o := range (*a).orders.Orders() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					o.ID, o.Label(), o.Status(), len(o.Items), o.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	var createName string
	var createTable int
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a new draft order",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := (*a).orders.Create(cmd.Context(), createName, createTable)
			if err != nil {
				return err
			}
			fmt.Printf("created order %s for %s\n", o.ID, o.Label())
			return nil
		},
	}
	create.Flags().StringVarP(&createName, "name", "n", "", "customer name")
	create.Flags().IntVarP(&createTable, "table", "t", 0, "table number")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("table")

	var addAmount int
	var addCategory string
	add := &cobra.Command{
		Use:   "add ORDER_ID PRODUCT_ID",
		Short: "Add a product to an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := (*a).orders.Refresh(ctx); err != nil {
				return err
			}
			if err := (*a).products.SelectCategory(ctx, addCategory); err != nil {
				return err
			}
			o, err := (*a).orders.AddItem(ctx, args[0], args[1], addAmount)
			if err != nil {
				return err
			}
			fmt.Printf("order %s now has %d item(s), status %s\n", o.ID, len(o.Items), o.Status())
			return nil
		},
	}
	add.Flags().IntVarP(&addAmount, "amount", "m", 1, "quantity to add")
	add.Flags().StringVarP(&addCategory, "category", "c", "", "category id of the product")
	_ = add.MarkFlagRequired("category")

	send := &cobra.Command{
		Use:   "send ORDER_ID",
		Short: "Send a draft order to the kitchen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := (*a).orders.Refresh(ctx); err != nil {
				return err
			}
			if err := (*a).orders.Send(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("order %s sent\n", args[0])
			return nil
		},
	}

	finish := &cobra.Command{
		Use:   "finish ORDER_ID",
		Short: "Finish an order and drop it from the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := (*a).orders.Refresh(ctx); err != nil {
				return err
			}
			if err := (*a).orders.Finish(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("order %s finished\n", args[0])
			return nil
		},
	}

	detail := &cobra.Command{
		Use:   "detail ORDER_ID",
		Short: "Show one order with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := (*a).gw.OrderDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOrder(o)
			return nil
		},
	}

	history := &cobra.Command{
		Use:   "history ORDER_ID",
		Short: "Show the journal of operations issued for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := (*a).journal.ListByOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tOP\tSTATUS\tREQUEST\tERROR")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format(time.RFC3339), e.Op, e.Status, e.RequestID, e.ErrorMessage)
			}
			return w.Flush()
		},
	}

	setAmount := &cobra.Command{
		Use:   "set-amount ORDER_ID ITEM_ID AMOUNT",
		Short: "Change the quantity of an item already on an order",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}
			if err := (*a).orders.Refresh(ctx); err != nil {
				return err
			}
			o, err := (*a).orders.SetItemAmount(ctx, args[0], args[1], amount)
			if err != nil {
				return err
			}
			printOrder(o)
			return nil
		},
	}

	removeItem := &cobra.Command{
		Use:   "remove-item ORDER_ID ITEM_ID",
		Short: "Drop an item from the local view of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := (*a).orders.Refresh(ctx); err != nil {
				return err
			}
			o, err := (*a).orders.RemoveItem(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			printOrder(o)
			return nil
		},
	}

	cmd.AddCommand(list, create, add, send, finish, detail, history, setAmount, removeItem)
	return cmd
}

func printOrder(o domain.Order) {
	fmt.Printf("order %s | %s | %s\n", o.ID, o.Label(), o.Status())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tAMOUNT\tPRICE\tSUBTOTAL")
	for _, it := range o.Items {
		subtotal := it.Product.Price.Mul(decimal.NewFromInt(int64(it.Amount)))
		fmt.Fprintf(w, "%s\t%s\t%d\tR$ %s\tR$ %s\n",
			it.ID, it.Product.Name, it.Amount, it.Product.Price.StringFixed(2), subtotal.StringFixed(2))
	}
	_ = w.Flush()
}
