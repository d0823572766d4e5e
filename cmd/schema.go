package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"climate-api/internal/modules/climate/types"
)

// responseTypes pairs each API route with the Go value it serializes.
var responseTypes = []struct {
	route string
	value any
}{
	{"/api/v1.0/precipitation", types.Precipitation{}},
	{"/api/v1.0/stations", []string{}},
	{"/api/v1.0/tobs", []types.TemperatureObservation{}},
	{"/api/v1.0/{start}", []types.TemperatureStats{}},
	{"/api/v1.0/{start}/{end}", []types.TemperatureStats{}},
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of every API response body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := responseSchemas()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

func responseSchemas() ([]byte, error) {
	r := &jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	out := make(map[string]*jsonschema.Schema, len(responseTypes))
	for _, rt := range responseTypes {
		out[rt.route] = r.Reflect(rt.value)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schemas: %w", err)
	}
	return b, nil
}
