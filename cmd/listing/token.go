package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugr-lab/listing/filter"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode attribute filters as a predicate token",
		Long: `Encode attribute filters as a predicate token.

The token can be passed as the predicate parameter of a listing, e.g.

  listing query people --predicate "$(listing token --attr city=Berlin --attr age='>30')"
  listing token --decode <token>`,
		Args: cobra.NoArgs,
		RunE: runToken,
	}
	cmd.Flags().StringArray("attr", nil, "attribute filter name=text (repeatable)")
	cmd.Flags().Bool("or", false, "combine attribute filters with OR instead of AND")
	cmd.Flags().String("decode", "", "print the predicate tree of a token")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	codec, err := filter.NewCodec()
	if err != nil {
		return err
	}
	defer codec.Close()

	out := cmd.OutOrStdout()
	if token, _ := cmd.Flags().GetString("decode"); token != "" {
		p, err := codec.Decode(token)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p.String())
		return nil
	}

	compiler, err := filter.NewCompiler(cfg.Operators)
	if err != nil {
		return err
	}

	attrs, _ := cmd.Flags().GetStringArray("attr")
	filters := make([]filter.AttributeFilter, 0, len(attrs)+1)
	for _, a := range attrs {
		name, text, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("invalid --attr %q: expected name=text", a)
		}
		filters = append(filters, filter.AttributeFilter{Attribute: strings.TrimSpace(name), Filter: text})
	}
	if or, _ := cmd.Flags().GetBool("or"); or {
		filters = append(filters, filter.AttributeFilter{Attribute: cfg.Operators.DisjunctionKey, Filter: "true"})
	}

	p := compiler.CompileAttributes(filters)
	if p == nil {
		return errors.New("no attribute filter to encode")
	}
	token, err := codec.Encode(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
