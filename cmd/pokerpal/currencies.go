package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/susu3304/pokerpal/internal/config"
	"github.com/susu3304/pokerpal/internal/settlement"
)

type CurrenciesCmd struct{}

func (c *CurrenciesCmd) Run(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSYMBOL\tNAME\t")
	for _, cur := range settlement.Currencies() {
		marker := ""
		if cur.Code == cfg.DefaultCurrency.Code {
			marker = "(default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cur.Code, strings.TrimSpace(cur.Symbol), cur.Name, marker)
	}
	return tw.Flush()
}
