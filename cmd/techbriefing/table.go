package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"TechBriefing/internal/domain"
)

func renderSeenTable(records []domain.SeenRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Seen At", "Link"})
	for i, rec := range records {
		tw.AppendRow(table.Row{i + 1, rec.SeenAt.Local().Format(time.DateTime), rec.Link})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft}})
	return tw.Render()
}
