package main

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
)

// commandClient builds the client used by the lookup commands.
var commandClient = func(ctx context.Context) (*rajaongkir.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newClient(cfg, telemetry.NewNopLogger(), nil)
}

type lookupFunc func(ctx context.Context, client *rajaongkir.Client) (*rajaongkir.Response, error)

// runLookup performs one client call and prints the raw envelope, indented.
func runLookup(cmd *cobra.Command, call lookupFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := commandClient(ctx)
	if err != nil {
		return err
	}

	resp, err := call(ctx, client)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Raw, "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	out.WriteByte('\n')
	_, err = cmd.OutOrStdout().Write(out.Bytes())
	return err
}

func newProvinceCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "province",
		Short: "List provinces, or fetch one by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.Province(ctx, id)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "province id")
	return cmd
}

func newCityCmd() *cobra.Command {
	var req rajaongkir.CityRequest
	cmd := &cobra.Command{
		Use:   "city",
		Short: "List cities, optionally filtered by province",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.City(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.ProvinceID, "province", "", "province id")
	cmd.Flags().StringVar(&req.CityID, "id", "", "city id")
	return cmd
}

func newSubdistrictCmd() *cobra.Command {
	var req rajaongkir.SubdistrictRequest
	cmd := &cobra.Command{
		Use:   "subdistrict",
		Short: "List the subdistricts of a city (pro tier)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.Subdistrict(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.CityID, "city", "", "city id")
	cmd.Flags().StringVar(&req.SubdistrictID, "id", "", "subdistrict id")
	cmd.MarkFlagRequired("city")
	return cmd
}

func newCostCmd() *cobra.Command {
	var (
		req                         rajaongkir.CostRequest
		originType, destinationType string
	)
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Quote domestic shipping cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.OriginType = rajaongkir.LocationType(originType)
			req.DestinationType = rajaongkir.LocationType(destinationType)
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.Cost(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Origin, "origin", "", "origin id")
	cmd.Flags().StringVar(&req.Destination, "destination", "", "destination id")
	cmd.Flags().IntVar(&req.Weight, "weight", rajaongkir.DefaultWeight, "weight in grams")
	cmd.Flags().StringVar(&req.Courier, "courier", "", "courier code(s), colon separated")
	cmd.Flags().StringVar(&originType, "origin-type", "", "city or subdistrict (pro tier)")
	cmd.Flags().StringVar(&destinationType, "destination-type", "", "city or subdistrict (pro tier)")
	cmd.MarkFlagRequired("origin")
	cmd.MarkFlagRequired("destination")
	return cmd
}

func newInternationalOriginCmd() *cobra.Command {
	var req rajaongkir.InternationalOriginRequest
	cmd := &cobra.Command{
		Use:   "intl-origin",
		Short: "List cities that can ship internationally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.InternationalOrigin(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.CityID, "id", "", "city id")
	cmd.Flags().StringVar(&req.ProvinceID, "province", "", "province id")
	return cmd
}

func newInternationalDestinationCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "intl-destination",
		Short: "List destination countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.InternationalDestination(ctx, id)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "country id")
	return cmd
}

func newInternationalCostCmd() *cobra.Command {
	var req rajaongkir.InternationalCostRequest
	cmd := &cobra.Command{
		Use:   "intl-cost",
		Short: "Quote international shipping cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.InternationalCost(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Origin, "origin", "", "origin city id")
	cmd.Flags().StringVar(&req.Destination, "destination", "", "destination country id")
	cmd.Flags().IntVar(&req.Weight, "weight", rajaongkir.DefaultWeight, "weight in grams")
	cmd.Flags().StringVar(&req.Courier, "courier", "", "courier code(s), colon separated")
	cmd.MarkFlagRequired("origin")
	cmd.MarkFlagRequired("destination")
	return cmd
}

func newWaybillCmd() *cobra.Command {
	var req rajaongkir.WaybillRequest
	cmd := &cobra.Command{
		Use:   "waybill",
		Short: "Track a shipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, c *rajaongkir.Client) (*rajaongkir.Response, error) {
				return c.Waybill(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Waybill, "waybill", "", "waybill number")
	cmd.Flags().StringVar(&req.Courier, "courier", "", "courier code")
	cmd.MarkFlagRequired("waybill")
	cmd.MarkFlagRequired("courier")
	return cmd
}

func init() {
	rootCmd.AddCommand(
		newProvinceCmd(),
		newCityCmd(),
		newSubdistrictCmd(),
		newCostCmd(),
		newInternationalOriginCmd(),
		newInternationalDestinationCmd(),
		newInternationalCostCmd(),
		newWaybillCmd(),
	)
}
