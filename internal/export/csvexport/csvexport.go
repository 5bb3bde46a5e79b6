// Package csvexport writes the TV channel table as CSV. Header cells are
// bare and every data cell is quoted.
package csvexport

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/optimizer"
)

var (
	baselineHeaders  = []string{"Channel", "Region", "Genre", "Reach %", "Impact Score", "Current Spend", "ATC"}
	optimizedHeaders = []string{"Channel", "Region", "Genre", "Reach %", "Impact Score", "Current Spend", "Optimized Spend", "Status", "Change %"}
)

// FileName is the download name used for an export made on day now.
func FileName(optimized bool, now time.Time) string {
	kind := "Baseline"
	if optimized {
		kind = "Optimized"
	}
	return fmt.Sprintf("TV_Channels_All_Markets_%s_%s.csv", kind, now.Format("2006-01-02"))
}

func WriteBaseline(w io.Writer, channels []dataset.Channel) error {
	rows := make([][]string, 0, len(channels))
	for _, ch := range channels {
		rows = append(rows, append(common(ch), amount(ch.ATC)))
	}
	return write(w, baselineHeaders, rows)
}

func WriteOptimized(w io.Writer, channels []optimizer.ChannelResult) error {
	rows := make([][]string, 0, len(channels))
	for _, ch := range channels {
		status := ch.Status
		if status == "" {
			status = model.StatusMaintain
		}
		rows = append(rows, append(common(ch.Channel),
			amount(ch.NewSpend),
			string(status),
			decimal.NewFromFloat(ch.SpendChange).StringFixed(1),
		))
	}
	return write(w, optimizedHeaders, rows)
}

func common(ch dataset.Channel) []string {
	return []string{
		ch.Name,
		string(ch.Region),
		ch.Genre,
		decimal.NewFromFloat(ch.ReachPct).StringFixed(1),
		strconv.Itoa(ch.ImpactScore),
		amount(ch.Spend),
	}
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func write(w io.Writer, headers []string, rows [][]string) error {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareFold(rows[i][1], rows[j][1]); c != 0 {
			return c < 0
		}
		return compareFold(rows[i][0], rows[j][0]) < 0
	})
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		bw.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(`"` + strings.ReplaceAll(cell, `"`, `""`) + `"`)
		}
	}
	return bw.Flush()
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
